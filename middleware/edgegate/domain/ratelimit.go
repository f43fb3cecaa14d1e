package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

type Key string

// Decision é o resultado de consumir uma vaga para uma chave.
//
// Limit/Remaining alimentam os headers X-RateLimit-* quando a requisição
// é bloqueada; RetryAfter é o valor recomendado para Retry-After (0 = sem
// recomendação).
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int

	RetryAfter time.Duration
}

// LimiterStore decide, por chave (ex: IP, API key), se a ação é permitida
// agora e consome uma vaga quando permitida.
//
// Observação: a implementação pode ser janela fixa, token-bucket, etc.
// Take em janela fixa NÃO incrementa o contador quando bloqueia — requisições
// rejeitadas repetidas não adiam o reset da janela do cliente.
type LimiterStore interface {
	Take(Key) Decision
}
