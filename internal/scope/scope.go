// Package scope ties asynchronous work to the lifetime of a view.
//
// A view creates one Scope when it starts and closes it when it is torn
// down. Requests issued under the scope's context are aborted on Close, and
// results that still arrive afterwards are recognised as late via Closed.
package scope

import (
	"context"
	"sync"
)

type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	hooks  []func()
}

// New derives a scope from parent. A nil parent means context.Background.
func New(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the context that lives as long as the scope.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Bind merges a call-site context with the scope: the result is cancelled
// when either ctx or the scope ends.
func (s *Scope) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

// Closed reports whether Close has run or the parent context ended.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.ctx.Err() != nil
}

// OnClose registers f to run once when the scope closes. If the scope is
// already closed f runs immediately.
func (s *Scope) OnClose(f func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		f()
		return
	}
	s.hooks = append(s.hooks, f)
	s.mu.Unlock()
}

// Close cancels the scope's context and runs close hooks. Safe to call twice.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	s.cancel()
	for _, f := range hooks {
		f()
	}
}
