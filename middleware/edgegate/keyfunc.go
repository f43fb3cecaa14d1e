package edgegate

import (
	"net/http"
	"strings"
)

type KeyFunc func(r *http.Request) string

// DefaultKeyFunc deriva o identificador do cliente dos headers de proxy.
//
// O valor é chave de bucket opaca, não fronteira de confiança: nenhum formato
// de IP é validado. Sem header nenhum, todo mundo cai no balde "unknown".
func DefaultKeyFunc() KeyFunc {
	return func(r *http.Request) string {
		// pega o primeiro IP do X-Forwarded-For (cliente original)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}

		if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
			return ip
		}

		return "unknown"
	}
}
