package reaction_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillshare/internal/model"
	"skillshare/internal/reaction"
	"skillshare/internal/scope"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type mockLikes struct {
	mu          sync.Mutex
	toggleCalls []model.ReactionType

	ToggleFunc  func(ctx context.Context, postID string, t model.ReactionType) (*model.Like, error)
	SummaryFunc func(ctx context.Context, postID string) (*model.LikeSummary, error)
}

func (m *mockLikes) Toggle(ctx context.Context, postID string, t model.ReactionType) (*model.Like, error) {
	m.mu.Lock()
	m.toggleCalls = append(m.toggleCalls, t)
	m.mu.Unlock()
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, postID, t)
	}
	if t == model.ReactionNone {
		return nil, nil
	}
	return &model.Like{PostID: postID, ReactionType: t}, nil
}

func (m *mockLikes) Summary(ctx context.Context, postID string) (*model.LikeSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, postID)
	}
	return &model.LikeSummary{ReactionCounts: map[model.ReactionType]int{}}, nil
}

func (m *mockLikes) calls() []model.ReactionType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ReactionType(nil), m.toggleCalls...)
}

type identity struct {
	authed bool
}

func (i identity) UserID() string {
	if i.authed {
		return "u1"
	}
	return ""
}

func (i identity) Authenticated() bool { return i.authed }

// manualScheduler records scheduled reconciles instead of running them.
type manualScheduler struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
	stopped int
}

func (m *manualScheduler) Schedule(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.pending = append(m.pending, f)
	idx := len(m.pending) - 1
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.pending[idx] == nil {
			return false
		}
		m.pending[idx] = nil
		m.stopped++
		return true
	}
}

// fireLatest runs the most recently scheduled reconcile if still pending.
func (m *manualScheduler) fireLatest() bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	f := m.pending[len(m.pending)-1]
	m.pending[len(m.pending)-1] = nil
	m.mu.Unlock()
	if f == nil {
		return false
	}
	f()
	return true
}

func (m *manualScheduler) scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.delays)
}

// =============================================================================
// Test Helpers
// =============================================================================

func newAggregator(t *testing.T, likes *mockLikes, authed bool) (*reaction.Aggregator, *manualScheduler, *scope.Scope) {
	t.Helper()
	sched := &manualScheduler{}
	sc := scope.New(context.Background())
	t.Cleanup(sc.Close)
	agg := reaction.New(likes, identity{authed: authed}, "p1", sc, reaction.Options{Schedule: sched.Schedule})
	return agg, sched, sc
}

func summary(count int, liked bool, current model.ReactionType, counts map[model.ReactionType]int) func(context.Context, string) (*model.LikeSummary, error) {
	return func(context.Context, string) (*model.LikeSummary, error) {
		return &model.LikeSummary{Count: count, Liked: liked, ReactionType: current, ReactionCounts: counts}, nil
	}
}

// =============================================================================
// Select
// =============================================================================

func TestSelect_RequiresLogin(t *testing.T) {
	likes := &mockLikes{}
	agg, sched, _ := newAggregator(t, likes, false)

	err := agg.Select(context.Background(), model.ReactionLike)

	assert.ErrorIs(t, err, model.ErrLoginRequired)
	assert.Empty(t, likes.calls(), "no network call when logged out")
	assert.Zero(t, sched.scheduled())
	assert.Equal(t, 0, agg.Snapshot().LikeCount)
}

func TestSelect_RejectsUnknownReaction(t *testing.T) {
	likes := &mockLikes{}
	agg, _, _ := newAggregator(t, likes, true)

	assert.ErrorIs(t, agg.Select(context.Background(), model.ReactionType("meh")), model.ErrUnknownReaction)
	assert.ErrorIs(t, agg.Select(context.Background(), model.ReactionNone), model.ErrUnknownReaction)
	assert.Empty(t, likes.calls())
}

func TestSelect_NewReaction(t *testing.T) {
	likes := &mockLikes{SummaryFunc: summary(2, false, model.ReactionNone, map[model.ReactionType]int{model.ReactionLike: 2})}
	agg, _, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))

	require.NoError(t, agg.Select(context.Background(), model.ReactionHeart))

	st := agg.Snapshot()
	assert.Equal(t, 3, st.LikeCount)
	assert.True(t, st.Liked)
	assert.Equal(t, model.ReactionHeart, st.Current)
	assert.Equal(t, 1, st.Counts[model.ReactionHeart])
	assert.Equal(t, 2, st.Counts[model.ReactionLike])
	assert.Equal(t, []model.ReactionType{model.ReactionHeart}, likes.calls())
}

func TestSelect_SwitchDoesNotDoubleCount(t *testing.T) {
	likes := &mockLikes{SummaryFunc: summary(5, true, model.ReactionLike, map[model.ReactionType]int{model.ReactionLike: 3, model.ReactionWow: 2})}
	agg, _, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))

	require.NoError(t, agg.Select(context.Background(), model.ReactionWow))

	st := agg.Snapshot()
	assert.Equal(t, 5, st.LikeCount)
	assert.Equal(t, model.ReactionWow, st.Current)
	assert.Equal(t, 2, st.Counts[model.ReactionLike])
	assert.Equal(t, 3, st.Counts[model.ReactionWow])
}

func TestSelect_SameReactionRemoves(t *testing.T) {
	likes := &mockLikes{SummaryFunc: summary(4, true, model.ReactionHaha, map[model.ReactionType]int{model.ReactionHaha: 4})}
	agg, _, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))

	require.NoError(t, agg.Select(context.Background(), model.ReactionHaha))

	st := agg.Snapshot()
	assert.Equal(t, 3, st.LikeCount)
	assert.False(t, st.Liked)
	assert.Equal(t, model.ReactionNone, st.Current)
	assert.Equal(t, 3, st.Counts[model.ReactionHaha])
	assert.Equal(t, []model.ReactionType{model.ReactionNone}, likes.calls(), "removal sends no reaction")
}

func TestSelect_RemovalFloorsAtZero(t *testing.T) {
	likes := &mockLikes{SummaryFunc: summary(0, true, model.ReactionAngry, map[model.ReactionType]int{})}
	agg, _, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))

	require.NoError(t, agg.Select(context.Background(), model.ReactionAngry))

	st := agg.Snapshot()
	assert.Equal(t, 0, st.LikeCount)
	assert.Equal(t, 0, st.Counts[model.ReactionAngry])
}

func TestSelect_FailureLeavesStateUnchanged(t *testing.T) {
	boom := errors.New("Failed to toggle like")
	likes := &mockLikes{
		SummaryFunc: summary(1, true, model.ReactionLike, map[model.ReactionType]int{model.ReactionLike: 1}),
		ToggleFunc: func(context.Context, string, model.ReactionType) (*model.Like, error) {
			return nil, boom
		},
	}
	agg, sched, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))
	before := agg.Snapshot()

	err := agg.Select(context.Background(), model.ReactionCare)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, agg.Snapshot())
	assert.Zero(t, sched.scheduled())
}

func TestSelect_SequenceKeepsInvariants(t *testing.T) {
	likes := &mockLikes{}
	agg, _, _ := newAggregator(t, likes, true)
	ctx := context.Background()

	seq := []model.ReactionType{
		model.ReactionLike, model.ReactionHeart, model.ReactionHeart,
		model.ReactionWow, model.ReactionWow, model.ReactionWow, model.ReactionAngry,
	}
	for _, r := range seq {
		require.NoError(t, agg.Select(ctx, r))
		st := agg.Snapshot()
		assert.GreaterOrEqual(t, st.LikeCount, 0)
		assert.LessOrEqual(t, st.LikeCount, 1)
		total := 0
		for _, n := range st.Counts {
			assert.GreaterOrEqual(t, n, 0)
			total += n
		}
		assert.Equal(t, st.LikeCount, total)
		assert.Equal(t, st.Liked, st.Current != model.ReactionNone)
	}
}

// =============================================================================
// Reconciliation
// =============================================================================

func TestSelect_SchedulesReconcile(t *testing.T) {
	var serverCount int
	likes := &mockLikes{
		SummaryFunc: func(context.Context, string) (*model.LikeSummary, error) {
			return &model.LikeSummary{Count: serverCount, Liked: true, ReactionType: model.ReactionLike,
				ReactionCounts: map[model.ReactionType]int{model.ReactionLike: serverCount}}, nil
		},
	}
	agg, sched, _ := newAggregator(t, likes, true)

	require.NoError(t, agg.Select(context.Background(), model.ReactionLike))
	require.Equal(t, 1, sched.scheduled())
	assert.Equal(t, reaction.DefaultReconcileDelay, sched.delays[0])
	assert.Equal(t, 1, agg.Snapshot().LikeCount)

	// Someone else liked meanwhile; the reconcile corrects the drift.
	serverCount = 7
	require.True(t, sched.fireLatest())
	assert.Equal(t, 7, agg.Snapshot().LikeCount)
}

func TestSelect_NewReconcileReplacesPending(t *testing.T) {
	likes := &mockLikes{}
	agg, sched, _ := newAggregator(t, likes, true)

	require.NoError(t, agg.Select(context.Background(), model.ReactionLike))
	require.NoError(t, agg.Select(context.Background(), model.ReactionHeart))

	assert.Equal(t, 2, sched.scheduled())
	assert.Equal(t, 1, sched.stopped)
}

func TestReconcile_StaleSummaryIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	likes := &mockLikes{
		SummaryFunc: func(context.Context, string) (*model.LikeSummary, error) {
			close(entered)
			<-release
			return &model.LikeSummary{Count: 0, ReactionCounts: map[model.ReactionType]int{}}, nil
		},
	}
	agg, sched, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Select(context.Background(), model.ReactionLike))

	done := make(chan struct{})
	go func() {
		sched.fireLatest()
		close(done)
	}()
	<-entered

	// A newer change lands while the reconcile is in flight.
	require.NoError(t, agg.Select(context.Background(), model.ReactionWow))
	close(release)
	<-done

	st := agg.Snapshot()
	assert.Equal(t, model.ReactionWow, st.Current)
	assert.Equal(t, 1, st.LikeCount)
}

func TestSelect_StaleToggleIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	likes := &mockLikes{
		ToggleFunc: func(ctx context.Context, postID string, t model.ReactionType) (*model.Like, error) {
			if t == model.ReactionLike {
				close(entered)
				<-release
			}
			return &model.Like{PostID: postID, ReactionType: t}, nil
		},
	}
	agg, _, _ := newAggregator(t, likes, true)

	errCh := make(chan error, 1)
	go func() { errCh <- agg.Select(context.Background(), model.ReactionLike) }()
	<-entered

	require.NoError(t, agg.Select(context.Background(), model.ReactionCare))
	close(release)
	require.NoError(t, <-errCh)

	st := agg.Snapshot()
	assert.Equal(t, model.ReactionCare, st.Current)
	assert.Equal(t, 1, st.LikeCount)
	assert.Equal(t, 0, st.Counts[model.ReactionLike])
	assert.Equal(t, 1, st.Counts[model.ReactionCare])
}

// =============================================================================
// Scope
// =============================================================================

func TestClose_CancelsPendingReconcile(t *testing.T) {
	likes := &mockLikes{}
	agg, sched, sc := newAggregator(t, likes, true)

	require.NoError(t, agg.Select(context.Background(), model.ReactionLike))
	sc.Close()

	assert.Equal(t, 1, sched.stopped)
	assert.False(t, sched.fireLatest())
}

func TestClose_LateResultIsDropped(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	likes := &mockLikes{
		ToggleFunc: func(ctx context.Context, postID string, t model.ReactionType) (*model.Like, error) {
			close(entered)
			<-release
			return &model.Like{PostID: postID, ReactionType: t}, nil
		},
	}
	agg, sched, sc := newAggregator(t, likes, true)

	var notified bool
	agg.OnChange(func(reaction.State) { notified = true })

	errCh := make(chan error, 1)
	go func() { errCh <- agg.Select(context.Background(), model.ReactionLike) }()
	<-entered
	sc.Close()
	close(release)

	assert.ErrorIs(t, <-errCh, model.ErrViewClosed)
	assert.Equal(t, 0, agg.Snapshot().LikeCount)
	assert.False(t, notified)
	assert.Zero(t, sched.scheduled())

	assert.ErrorIs(t, agg.Select(context.Background(), model.ReactionLike), model.ErrViewClosed)
	assert.ErrorIs(t, agg.Load(context.Background()), model.ErrViewClosed)
}

func TestClose_CancelsInFlightRequestContext(t *testing.T) {
	entered := make(chan struct{})
	likes := &mockLikes{
		SummaryFunc: func(ctx context.Context, _ string) (*model.LikeSummary, error) {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	agg, _, sc := newAggregator(t, likes, true)

	errCh := make(chan error, 1)
	go func() { errCh <- agg.Load(context.Background()) }()
	<-entered
	sc.Close()

	assert.ErrorIs(t, <-errCh, model.ErrViewClosed)
}

// =============================================================================
// Snapshot & listeners
// =============================================================================

func TestSnapshot_IsACopy(t *testing.T) {
	likes := &mockLikes{SummaryFunc: summary(1, true, model.ReactionLike, map[model.ReactionType]int{model.ReactionLike: 1})}
	agg, _, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))

	snap := agg.Snapshot()
	snap.Counts[model.ReactionLike] = 99

	assert.Equal(t, 1, agg.Snapshot().Counts[model.ReactionLike])
}

func TestOnChange_ReceivesEachUpdate(t *testing.T) {
	likes := &mockLikes{}
	agg, _, _ := newAggregator(t, likes, true)

	var got []reaction.State
	agg.OnChange(func(st reaction.State) { got = append(got, st) })

	require.NoError(t, agg.Load(context.Background()))
	require.NoError(t, agg.Select(context.Background(), model.ReactionWow))

	require.Len(t, got, 2)
	assert.Equal(t, model.ReactionWow, got[1].Current)
}

func TestLoad_IgnoresUnknownBucketsAndUnlikedReaction(t *testing.T) {
	likes := &mockLikes{SummaryFunc: summary(-3, false, model.ReactionLike, map[model.ReactionType]int{model.ReactionLike: -1, "bogus": 4})}
	agg, _, _ := newAggregator(t, likes, true)
	require.NoError(t, agg.Load(context.Background()))

	st := agg.Snapshot()
	assert.Equal(t, 0, st.LikeCount)
	assert.Equal(t, model.ReactionNone, st.Current)
	assert.Equal(t, 0, st.Counts[model.ReactionLike])
	_, ok := st.Counts["bogus"]
	assert.False(t, ok)
}
