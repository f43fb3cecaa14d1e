// Package vitals recebe beacons de Core Web Vitals do cliente e os encaminha
// como linhas de log estruturadas (e, opcionalmente, contadores no stats store).
//
// O endpoint é API (isento do limiter de página), então carrega a própria
// proteção: um token bucket por cliente na frente do decode.
package vitals

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"portfolio-edge/middleware/edgegate"
	"portfolio-edge/middleware/edgegate/application"
	"portfolio-edge/middleware/edgegate/domain"

	"github.com/rs/zerolog"
)

// Beacon é o payload emitido pela lib web-vitals no cliente.
type Beacon struct {
	Name   string  `json:"name"`
	ID     string  `json:"id"`
	Value  float64 `json:"value"`
	Delta  float64 `json:"delta,omitempty"`
	Rating string  `json:"rating,omitempty"`
	Path   string  `json:"path,omitempty"`
}

var knownMetrics = map[string]bool{
	"CLS":  true,
	"FCP":  true,
	"FID":  true,
	"INP":  true,
	"LCP":  true,
	"TTFB": true,
}

// Valid diz se o beacon faz sentido: métrica conhecida, id presente,
// valor finito e não-negativo.
func (b Beacon) Valid() bool {
	if !knownMetrics[b.Name] || b.ID == "" {
		return false
	}
	if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) || b.Value < 0 {
		return false
	}
	return true
}

type Handler struct {
	Logger zerolog.Logger
	// Store limita beacons por cliente (tipicamente infra.BucketStore).
	// Nil desliga o throttle.
	Store domain.LimiterStore
	Stats domain.StatsStore
	KeyFn edgegate.KeyFunc

	// MaxBody limita o corpo aceito; 0 usa o default (4 KiB).
	MaxBody int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	keyFn := h.KeyFn
	if keyFn == nil {
		keyFn = edgegate.DefaultKeyFunc()
	}
	key := keyFn(r)

	svc := application.Service{Store: h.Store, RetryAfter: 1 * time.Second}
	if dec := svc.Decide(domain.Key(key)); !dec.Allowed {
		w.Header().Set("Retry-After", "1")
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	maxBody := h.MaxBody
	if maxBody <= 0 {
		maxBody = 4 << 10
	}

	var b Beacon
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&b); err != nil || !b.Valid() {
		http.Error(w, "invalid beacon", http.StatusBadRequest)
		return
	}

	if h.Stats != nil {
		// Method/Path do StatsEvent são genéricos; aqui viram métrica
		_ = h.Stats.Record(r.Context(), domain.StatsEvent{
			Key:     domain.Key(key),
			Allowed: true,
			Method:  "VITAL",
			Path:    b.Name,
			At:      time.Now(),
		})
	}

	h.Logger.Info().
		Str("type", "web_vital").
		Str("metric", b.Name).
		Float64("value", b.Value).
		Str("id", b.ID).
		Str("rating", b.Rating).
		Str("path", b.Path).
		Str("client", key).
		Msg("vital received")

	w.WriteHeader(http.StatusNoContent)
}
