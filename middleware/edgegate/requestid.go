package edgegate

import (
	"math/rand"
	"strconv"
	"time"
)

// NewRequestID sintetiza um id no formato "<epoch-millis>-<sufixo-base36>".
//
// Não é UUID de propósito: o formato com timestamp na frente deixa o id
// ordenável a olho em log e barato de gerar. Unicidade aqui é best-effort
// (tracing), não identidade.
func NewRequestID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	return millis + "-" + suffix
}
