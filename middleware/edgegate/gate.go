package edgegate

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"portfolio-edge/middleware/edgegate/application"
	"portfolio-edge/middleware/edgegate/domain"

	"github.com/rs/zerolog"
)

// Mode é o modo de execução do processo, lido uma vez na subida.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeTest        Mode = "test"
	ModeProduction  Mode = "production"
)

// ParseMode aceita os três modos conhecidos; qualquer outra coisa vira development.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTest:
		return ModeTest
	case ModeProduction:
		return ModeProduction
	default:
		return ModeDevelopment
	}
}

const (
	HeaderRequestID = "X-Request-Id"
	HeaderBypass    = "X-Bypass-Rate-Limit"

	DefaultAssetPrefix = "/_next"
	DefaultAPIPrefix   = "/api"
	DefaultWindow      = 60 * time.Second
)

type Options struct {
	Store   domain.LimiterStore
	Stats   domain.StatsStore
	Logger  zerolog.Logger
	Mode    Mode
	Service string
	KeyFn   KeyFunc

	AssetPrefix string
	APIPrefix   string
	RetryAfter  time.Duration
}

// SkipPath replica a heurística de isenção do gate: prefixo interno de assets,
// prefixo de API, ou um '.' em qualquer lugar do caminho.
//
// A checagem do ponto é propositalmente grosseira (também isenta rota de página
// que contenha um ponto literal); está mantida por compatibilidade com o
// comportamento original. Se fidelidade não importar, um padrão de extensão no
// fim do path seria mais preciso.
func SkipPath(path, assetPrefix, apiPrefix string) bool {
	return strings.HasPrefix(path, assetPrefix) ||
		strings.HasPrefix(path, apiPrefix) ||
		strings.Contains(path, ".")
}

// Middleware monta o gate de borda. Não há modo de falha visível para o caller:
// header ausente vira default, e o 429 é um desfecho normal, não um erro.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Mode == "" {
		opts.Mode = ModeDevelopment
	}
	if opts.AssetPrefix == "" {
		opts.AssetPrefix = DefaultAssetPrefix
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = DefaultAPIPrefix
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = DefaultWindow
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc()
	}

	svc := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(HeaderRequestID))
			if reqID == "" {
				reqID = NewRequestID()
			}
			// o id vai na resposta em qualquer desfecho, inclusive no 429
			w.Header().Set(HeaderRequestID, reqID)

			// assets e API têm volume alto e/ou proteção própria; contar
			// contra o orçamento de página roubaria navegação legítima
			if SkipPath(r.URL.Path, opts.AssetPrefix, opts.APIPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := opts.KeyFn(r)
			bypass := opts.Mode == ModeDevelopment || opts.Mode == ModeTest ||
				r.Header.Get(HeaderBypass) == "true"

			if !bypass && opts.Store != nil {
				dec := svc.Decide(domain.Key(key))
				if opts.Stats != nil {
					_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
						Key:     domain.Key(key),
						Allowed: dec.Allowed,
						Method:  r.Method,
						Path:    r.URL.Path,
						At:      time.Now(),
					})
				}
				if !dec.Allowed {
					reject(w, dec)
					return
				}
			}

			setSecurityHeaders(w.Header())

			if opts.Mode == ModeProduction && !bypass {
				opts.Logger.Info().
					Str("type", "edge_request").
					Str("service", opts.Service).
					Str("env", string(opts.Mode)).
					Str("requestId", reqID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("client", key).
					Msg("request allowed")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setSecurityHeaders(h http.Header) {
	h.Set("X-DNS-Prefetch-Control", "on")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
}

type rejectBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// reject encerra a cadeia com 429. O 429 não recebe headers de segurança:
// é resposta terminal, nunca chega na renderização.
func reject(w http.ResponseWriter, dec domain.Decision) {
	w.Header().Set("Retry-After", formatInt(int(dec.RetryAfter.Seconds())))
	w.Header().Set("X-RateLimit-Limit", formatInt(dec.Limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(rejectBody{
		Error:   "Too many requests",
		Message: "Please slow down and try again later",
	})
}
