package service

import (
	"context"
	"sync"
)

type callerKey struct{}

// WithCaller tags ctx with the identity whose requests supersede each other.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller set by WithCaller, or "local".
func CallerFromContext(ctx context.Context) string {
	if caller, ok := ctx.Value(callerKey{}).(string); ok && caller != "" {
		return caller
	}
	return "local"
}

// requestToken is one in-flight outbound call.
type requestToken struct {
	key    string
	seq    uint64
	cancel context.CancelFunc
}

// requestTokens tracks the newest call per logical operation. Starting a call
// cancels the previous one under the same key, so only the newest result is
// ever applied.
type requestTokens struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]*requestToken
}

func newRequestTokens() *requestTokens {
	return &requestTokens{active: make(map[string]*requestToken)}
}

// acquire supersedes any call running under key and returns a context that is
// cancelled when this call is itself superseded or released.
func (t *requestTokens) acquire(parent context.Context, key string) (context.Context, *requestToken) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.active[key]; ok {
		prev.cancel()
	}
	t.seq++
	tok := &requestToken{key: key, seq: t.seq, cancel: cancel}
	t.active[key] = tok
	return ctx, tok
}

// current reports whether tok is still the newest call for its key.
func (t *requestTokens) current(tok *requestToken) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[tok.key] == tok
}

// release ends the call and forgets it if nothing newer replaced it.
func (t *requestTokens) release(tok *requestToken) {
	t.mu.Lock()
	if t.active[tok.key] == tok {
		delete(t.active, tok.key)
	}
	t.mu.Unlock()
	tok.cancel()
}
