package infra

import (
	"sync"
	"time"

	"portfolio-edge/middleware/edgegate/domain"
)

// WindowStore é uma implementação de infra baseada em janela fixa:
// um contador por chave que zera quando a janela expira.
//
// A expiração tem duas velocidades, de propósito:
//   - preguiçosa: Take trata entrada com resetAt no passado como inexistente,
//     então nenhuma requisição observa uma janela vencida;
//   - periódica: o janitor varre o mapa e remove entradas vencidas, para que
//     chaves abandonadas não cresçam a memória para sempre.
//
// Remover uma das duas quebra o design: só a varredura deixaria uma leitura
// ver contador velho entre varreduras; só a leitura nunca recolheria chaves
// que pararam de mandar requisição.
type WindowStore struct {
	mu         sync.Mutex
	entries    map[string]*windowEntry
	capacity   int
	window     time.Duration
	sweepEvery time.Duration
	now        func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

type WindowOption func(*WindowStore)

func WithSweepEvery(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.sweepEvery = d }
}

// WithNowFunc troca o relógio do store (testes de rollover de janela).
func WithNowFunc(now func() time.Time) WindowOption {
	return func(s *WindowStore) { s.now = now }
}

func NewWindowStore(capacity int, window time.Duration, opts ...WindowOption) *WindowStore {
	s := &WindowStore{
		entries:    make(map[string]*windowEntry),
		capacity:   capacity,
		window:     window,
		sweepEvery: window,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WindowStore) Capacity() int         { return s.capacity }
func (s *WindowStore) Window() time.Duration { return s.window }

// Len retorna o número de chaves vivas no mapa (inclui vencidas ainda não varridas).
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Take implementa domain.LimiterStore.
//
// A checagem de expiração é estrita (now > resetAt) e acontece na leitura:
// a primeira requisição depois do vencimento recria a entrada com count=1.
// Quando bloqueia, o contador NÃO é incrementado — rejeições repetidas não
// adiam o reset do cliente.
func (s *WindowStore) Take(key domain.Key) domain.Decision {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[string(key)]
	if !ok || now.After(ent.resetAt) {
		s.entries[string(key)] = &windowEntry{count: 1, resetAt: now.Add(s.window)}
		return domain.Decision{Allowed: true, Limit: s.capacity, Remaining: s.capacity - 1}
	}

	if ent.count < s.capacity {
		ent.count++
		return domain.Decision{Allowed: true, Limit: s.capacity, Remaining: s.capacity - ent.count}
	}

	return domain.Decision{
		Allowed:    false,
		Limit:      s.capacity,
		Remaining:  0,
		RetryAfter: s.window,
	}
}

// Sweep remove toda entrada cuja janela já venceu.
func (s *WindowStore) Sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if now.After(ent.resetAt) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que varre o mapa periodicamente
// (intervalo padrão = uma janela). Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar context aqui.
// (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
