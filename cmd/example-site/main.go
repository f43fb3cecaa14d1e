package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-edge/logging"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Upstream de exemplo: umas poucas rotas de página fazendo as vezes do
// renderizador real atrás do edge. Suba com:
//
//	UPSTREAM_URL=http://localhost:8081 go run ./cmd/edge
func main() {
	logger := logging.New(nil, "example-site", "development")

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	page := func(title, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, "<h1>%s</h1><p>%s</p>", title, body)
		}
	}

	r.Get("/", page("Home", "Olá! Este é o upstream de exemplo do edge."))
	r.Get("/projects", page("Projects", "Lista de projetos."))
	r.Get("/contact", page("Contact", "Fale comigo."))

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Msgf("example site listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}
