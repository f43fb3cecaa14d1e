// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - WindowStore: contador por chave em janela fixa de 60s (páginas)
//   - BucketStore: token bucket por chave usando golang.org/x/time/rate (vitals)
//   - ChanPool: semáforo simples para limite de concorrência
package infra
