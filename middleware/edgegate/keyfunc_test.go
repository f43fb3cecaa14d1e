package edgegate

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultKeyFunc_UsesFirstXForwardedForIP(t *testing.T) {
	fn := DefaultKeyFunc()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	r.Header.Set("X-Real-Ip", "9.9.9.9")

	if got := fn(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestDefaultKeyFunc_FallbacksToXRealIP(t *testing.T) {
	fn := DefaultKeyFunc()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Real-Ip", " 9.9.9.9 ")

	if got := fn(r); got != "9.9.9.9" {
		t.Fatalf("expected X-Real-Ip value, got %q", got)
	}
}

func TestDefaultKeyFunc_UnknownWhenNoHeaders(t *testing.T) {
	fn := DefaultKeyFunc()

	// RemoteAddr de propósito não entra: sem header de proxy, todo mundo
	// compartilha o balde "unknown"
	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"

	if got := fn(r); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}
