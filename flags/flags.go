// Package flags resolve as feature flags servidas ao cliente: defaults por
// modo de execução mesclados com overrides explícitos. Override sempre vence.
package flags

import (
	"strconv"
	"strings"

	"portfolio-edge/middleware/edgegate"
)

// Flags conhecidas pelo site. A resolução aceita nomes fora desta lista
// (override pode introduzir flag nova); flag nunca definida resolve false.
const (
	AnalyticsEnabled = "analyticsEnabled"
	VitalsReporting  = "vitalsReporting"
	DebugPanel       = "debugPanel"
)

type Resolver struct {
	values map[string]bool
}

func defaultsFor(mode edgegate.Mode) map[string]bool {
	switch mode {
	case edgegate.ModeProduction:
		return map[string]bool{
			AnalyticsEnabled: true,
			VitalsReporting:  true,
			DebugPanel:       false,
		}
	case edgegate.ModeTest:
		// test fica com tudo barulhento desligado
		return map[string]bool{
			AnalyticsEnabled: false,
			VitalsReporting:  false,
			DebugPanel:       false,
		}
	default:
		return map[string]bool{
			AnalyticsEnabled: false,
			VitalsReporting:  false,
			DebugPanel:       true,
		}
	}
}

// NewResolver monta o resolver a partir do modo e de uma string de overrides
// no formato "nome=bool,outro=bool" (ex: FEATURE_FLAGS no cmd/edge).
// Entrada malformada é descartada entrada a entrada, best-effort.
func NewResolver(mode edgegate.Mode, overrides string) *Resolver {
	values := defaultsFor(mode)

	for _, part := range strings.Split(overrides, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if name == "" || err != nil {
			continue
		}
		values[name] = b
	}

	return &Resolver{values: values}
}

// Resolve retorna o valor da flag; flag desconhecida é false.
func (r *Resolver) Resolve(name string) bool {
	return r.values[name]
}

// Snapshot copia o estado resolvido (para servir em /api/flags).
func (r *Resolver) Snapshot() map[string]bool {
	out := make(map[string]bool, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
