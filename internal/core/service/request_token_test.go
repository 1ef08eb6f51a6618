package service

import (
	"context"
	"testing"
)

func TestCallerFromContext(t *testing.T) {
	if got := CallerFromContext(context.Background()); got != "local" {
		t.Fatalf("expected default caller, got %q", got)
	}
	if got := CallerFromContext(WithCaller(context.Background(), "user-1")); got != "user-1" {
		t.Fatalf("got %q", got)
	}
}

func TestRequestTokens_AcquireSupersedes(t *testing.T) {
	tokens := newRequestTokens()

	ctx1, tok1 := tokens.acquire(context.Background(), "route:a")
	ctx2, tok2 := tokens.acquire(context.Background(), "route:a")

	if ctx1.Err() == nil {
		t.Fatal("older call must be cancelled")
	}
	if tokens.current(tok1) {
		t.Fatal("older token must be stale")
	}
	if !tokens.current(tok2) || ctx2.Err() != nil {
		t.Fatal("newest token must stay live")
	}

	// releasing the stale token must not evict the newer one
	tokens.release(tok1)
	if !tokens.current(tok2) {
		t.Fatal("stale release evicted the live token")
	}

	tokens.release(tok2)
	if ctx2.Err() == nil {
		t.Fatal("released call must be cancelled")
	}
}

func TestRequestTokens_KeysAreIndependent(t *testing.T) {
	tokens := newRequestTokens()

	ctxA, tokA := tokens.acquire(context.Background(), "chat:a")
	_, tokB := tokens.acquire(context.Background(), "chat:b")

	if ctxA.Err() != nil || !tokens.current(tokA) || !tokens.current(tokB) {
		t.Fatal("different keys must not supersede each other")
	}
}
