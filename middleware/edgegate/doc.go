// Package edgegate fornece o middleware de borda (net/http) que roda antes da
// renderização de página: request id, isenção de paths, rate limit por janela,
// headers de segurança e log de acesso estruturado.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (janela fixa, token bucket, semáforo)
//   - edgegate (este pacote): middlewares HTTP + wiring/extração de chave + tradução para status/headers
//
// Fluxo no gate, por requisição:
//
//  1. Propaga ou sintetiza o x-request-id (sempre presente na resposta)
//  2. Isenta assets/API/paths com extensão (só o request id é anexado)
//  3. Extrai a chave do cliente (XFF > X-Real-Ip > "unknown")
//  4. Bypass em development/test ou via header x-bypass-rate-limit
//  5. Consome uma vaga da janela; bloqueado responde 429 com corpo JSON
//  6. Permitido ganha headers de segurança e, em produção, uma linha de log
//
// Variáveis de ambiente do binário edge (cmd/edge) controlam o comportamento,
// como APP_ENV, RATE_CAPACITY, RATE_WINDOW e CONCURRENCY_MAX.
package edgegate
