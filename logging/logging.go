// Package logging constrói o logger estruturado do processo.
//
// É um shim fino em cima de zerolog: uma linha JSON por evento, timestamp
// ISO-8601, campos fixos de serviço/ambiente. Quem emite o quê fica a cargo
// de cada componente (ex: o gate emite a linha de acesso em produção).
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New cria o logger raiz. Com w nil, escreve em stderr.
// Em development o nível é debug; nos demais modos, info.
func New(w io.Writer, service, env string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", service).
		Str("env", env).
		Logger()
}
