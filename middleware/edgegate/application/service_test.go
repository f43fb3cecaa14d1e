package application

import (
	"testing"
	"time"

	"portfolio-edge/middleware/edgegate/domain"
)

type fakeStore struct {
	dec domain.Decision
}

func (s fakeStore) Take(domain.Key) domain.Decision { return s.dec }

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide("k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_PassesThroughAllowedDecision(t *testing.T) {
	svc := Service{Store: fakeStore{dec: domain.Decision{Allowed: true, Limit: 60, Remaining: 12}}}
	dec := svc.Decide("k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.Limit != 60 || dec.Remaining != 12 {
		t.Fatalf("expected store decision preserved, got %+v", dec)
	}
}

func TestService_Decide_BlocksWithDefaultRetryAfter(t *testing.T) {
	svc := Service{Store: fakeStore{dec: domain.Decision{Allowed: false, Limit: 60}}}
	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 60*time.Second {
		t.Fatalf("expected default RetryAfter=60s, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_StoreRetryAfterWins(t *testing.T) {
	svc := Service{
		Store:      fakeStore{dec: domain.Decision{Allowed: false, RetryAfter: 5 * time.Second}},
		RetryAfter: 2 * time.Second,
	}
	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 5*time.Second {
		t.Fatalf("expected store RetryAfter=5s to win, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_UsesConfiguredRetryAfterWhenStoreSilent(t *testing.T) {
	svc := Service{
		Store:      fakeStore{dec: domain.Decision{Allowed: false}},
		RetryAfter: 2500 * time.Millisecond,
	}
	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 2500*time.Millisecond {
		t.Fatalf("expected RetryAfter=2.5s, got %s", dec.RetryAfter)
	}
}
