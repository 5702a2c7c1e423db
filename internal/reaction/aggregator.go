// Package reaction keeps the per-post reaction tally a viewer sees and
// applies the viewer's own reaction changes to it.
package reaction

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"skillshare/internal/model"
	"skillshare/internal/scope"
	"skillshare/internal/session"
)

// DefaultReconcileDelay is how long after a change the authoritative summary
// is fetched again.
const DefaultReconcileDelay = 800 * time.Millisecond

// State is what a post's reaction bar renders.
type State struct {
	LikeCount int
	Current   model.ReactionType
	Counts    map[model.ReactionType]int
	Liked     bool
}

func (s State) clone() State {
	out := s
	out.Counts = make(map[model.ReactionType]int, len(s.Counts))
	for k, v := range s.Counts {
		out.Counts[k] = v
	}
	return out
}

// LikeAPI is the subset of api.Likes the aggregator uses.
type LikeAPI interface {
	Toggle(ctx context.Context, postID string, reaction model.ReactionType) (*model.Like, error)
	Summary(ctx context.Context, postID string) (*model.LikeSummary, error)
}

// Scheduler runs f after d and returns a function that cancels it.
// time.AfterFunc satisfies it through AfterFunc below.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc is the default Scheduler.
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type Options struct {
	ReconcileDelay time.Duration
	Schedule       Scheduler
	Logger         *zap.Logger
}

// Aggregator owns one post's reaction state for one view.
//
// Every network round trip is tagged with a sequence number; a result is
// applied only while its number is still the latest issued, so a slow
// response can never overwrite a newer one.
type Aggregator struct {
	api      LikeAPI
	identity session.Identity
	postID   string
	scope    *scope.Scope
	delay    time.Duration
	schedule Scheduler
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	seq       uint64
	stopTimer func() bool
	listeners []func(State)
}

func New(api LikeAPI, identity session.Identity, postID string, sc *scope.Scope, opts Options) *Aggregator {
	if sc == nil {
		sc = scope.New(context.Background())
	}
	if opts.ReconcileDelay <= 0 {
		opts.ReconcileDelay = DefaultReconcileDelay
	}
	if opts.Schedule == nil {
		opts.Schedule = AfterFunc
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &Aggregator{
		api:      api,
		identity: identity,
		postID:   postID,
		scope:    sc,
		delay:    opts.ReconcileDelay,
		schedule: opts.Schedule,
		logger:   opts.Logger.Named("reaction").With(zap.String("post_id", postID)),
		state:    State{Counts: map[model.ReactionType]int{}},
	}
	sc.OnClose(a.cancelReconcile)
	return a
}

// Snapshot returns a copy of the current state.
func (a *Aggregator) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

// OnChange registers a listener called with a snapshot after every change.
func (a *Aggregator) OnChange(f func(State)) {
	a.mu.Lock()
	a.listeners = append(a.listeners, f)
	a.mu.Unlock()
}

// Load fetches the authoritative summary and replaces local state with it.
func (a *Aggregator) Load(ctx context.Context) error {
	if a.scope.Closed() {
		return model.ErrViewClosed
	}
	return a.fetch(ctx, a.next())
}

// Select applies the viewer's choice of reaction. Choosing the reaction
// already held removes it; choosing another one replaces it.
func (a *Aggregator) Select(ctx context.Context, t model.ReactionType) error {
	if !t.Valid() {
		return model.ErrUnknownReaction
	}
	if a.identity == nil || !a.identity.Authenticated() {
		return model.ErrLoginRequired
	}
	if a.scope.Closed() {
		return model.ErrViewClosed
	}

	a.mu.Lock()
	removing := a.state.Current == t
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	send := t
	if removing {
		send = model.ReactionNone
	}

	callCtx, cancel := a.scope.Bind(ctx)
	_, err := a.api.Toggle(callCtx, a.postID, send)
	cancel()
	if err != nil {
		if a.scope.Closed() {
			return model.ErrViewClosed
		}
		a.logger.Warn("toggle failed", zap.String("reaction", string(t)), zap.Error(err))
		return err
	}

	a.mu.Lock()
	if a.scope.Closed() {
		a.mu.Unlock()
		return model.ErrViewClosed
	}
	applied := seq == a.seq
	if applied {
		if removing {
			a.applyRemoval(t)
		} else {
			a.applySelect(t)
		}
	}
	snap := a.state.clone()
	a.mu.Unlock()

	if applied {
		a.notify(snap)
	} else {
		a.logger.Debug("discarding stale toggle result", zap.Uint64("seq", seq))
	}
	a.scheduleReconcile()
	return nil
}

// applyRemoval must be called with mu held.
func (a *Aggregator) applyRemoval(t model.ReactionType) {
	a.state.Current = model.ReactionNone
	a.state.Liked = false
	a.state.LikeCount = floor(a.state.LikeCount - 1)
	a.state.Counts[t] = floor(a.state.Counts[t] - 1)
}

// applySelect must be called with mu held.
func (a *Aggregator) applySelect(t model.ReactionType) {
	prev := a.state.Current
	if prev != model.ReactionNone && prev != t {
		a.state.Counts[prev] = floor(a.state.Counts[prev] - 1)
	}
	a.state.Counts[t]++
	if !a.state.Liked {
		a.state.LikeCount++
	}
	a.state.Current = t
	a.state.Liked = true
}

func floor(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// next issues a new sequence number, invalidating every earlier one.
func (a *Aggregator) next() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return a.seq
}

func (a *Aggregator) fetch(ctx context.Context, seq uint64) error {
	callCtx, cancel := a.scope.Bind(ctx)
	sum, err := a.api.Summary(callCtx, a.postID)
	cancel()
	if err != nil {
		if a.scope.Closed() {
			return model.ErrViewClosed
		}
		return err
	}

	a.mu.Lock()
	if a.scope.Closed() {
		a.mu.Unlock()
		return model.ErrViewClosed
	}
	if seq != a.seq {
		a.mu.Unlock()
		a.logger.Debug("discarding stale summary", zap.Uint64("seq", seq))
		return nil
	}
	a.state = fromSummary(sum)
	snap := a.state.clone()
	a.mu.Unlock()

	a.notify(snap)
	return nil
}

func fromSummary(sum *model.LikeSummary) State {
	st := State{
		LikeCount: floor(sum.Count),
		Liked:     sum.Liked,
		Current:   sum.ReactionType,
		Counts:    make(map[model.ReactionType]int, len(sum.ReactionCounts)),
	}
	if !st.Liked {
		st.Current = model.ReactionNone
	}
	for k, v := range sum.ReactionCounts {
		if k.Valid() {
			st.Counts[k] = floor(v)
		}
	}
	return st
}

// scheduleReconcile replaces any pending reconcile with a new one.
func (a *Aggregator) scheduleReconcile() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scope.Closed() {
		return
	}
	if a.stopTimer != nil {
		a.stopTimer()
	}
	a.stopTimer = a.schedule(a.delay, a.reconcile)
}

func (a *Aggregator) reconcile() {
	if a.scope.Closed() {
		return
	}
	err := a.fetch(a.scope.Context(), a.next())
	if err != nil && !errors.Is(err, model.ErrViewClosed) {
		a.logger.Warn("reconcile failed", zap.Error(err))
	}
}

func (a *Aggregator) cancelReconcile() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopTimer != nil {
		a.stopTimer()
		a.stopTimer = nil
	}
}

func (a *Aggregator) notify(st State) {
	a.mu.Lock()
	listeners := append([]func(State){}, a.listeners...)
	a.mu.Unlock()
	for _, f := range listeners {
		f(st.clone())
	}
}
