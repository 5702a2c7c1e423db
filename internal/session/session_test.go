package session_test

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillshare/internal/session"
)

// =============================================================================
// Test Helpers
// =============================================================================

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// =============================================================================
// Session lifecycle
// =============================================================================

func TestSession_LoginLogout(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil)

	var events []session.Event
	s.OnChange(func(ev session.Event) { events = append(events, ev) })

	assert.False(t, s.Authenticated())

	require.NoError(t, s.Login(ctx, session.Credentials{Token: "opaque", UserID: "u1"}))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "opaque", s.Token())
	assert.Equal(t, "u1", s.UserID())

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Empty(t, s.UserID())

	assert.Equal(t, []session.Event{session.EventLogin, session.EventLogout}, events)
}

func TestSession_LoginRequiresBothValues(t *testing.T) {
	s := session.New(nil)
	assert.Error(t, s.Login(context.Background(), session.Credentials{Token: "t"}))
	assert.Error(t, s.Login(context.Background(), session.Credentials{UserID: "u"}))
	assert.False(t, s.Authenticated())
}

func TestSession_ExpireEmitsExpired(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	s := session.New(store)
	require.NoError(t, s.Login(ctx, session.Credentials{Token: "t", UserID: "u"}))

	var got session.Event
	s.OnChange(func(ev session.Event) { got = ev })
	require.NoError(t, s.Expire(ctx))

	assert.Equal(t, session.EventExpired, got)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestSession_RestoreFromStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "t", UserID: "u9"}))

	s := session.New(store)
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, "u9", s.UserID())
	assert.True(t, s.Authenticated())
}

func TestSession_RestoreEmptyStoreIsNotAnError(t *testing.T) {
	s := session.New(session.NewMemoryStore())
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.Authenticated())
}

func TestSession_JWTExpiry(t *testing.T) {
	ctx := context.Background()

	live := session.New(nil)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, live.Login(ctx, session.Credentials{Token: signedToken(t, exp), UserID: "u1"}))
	assert.True(t, live.Authenticated())
	got, ok := live.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	dead := session.New(nil)
	require.NoError(t, dead.Login(ctx, session.Credentials{Token: signedToken(t, time.Now().Add(-time.Minute)), UserID: "u1"}))
	assert.False(t, dead.Authenticated())
}

func TestSession_EventString(t *testing.T) {
	assert.Equal(t, "login", session.EventLogin.String())
	assert.Equal(t, "logout", session.EventLogout.String())
	assert.Equal(t, "expired", session.EventExpired.String())
}

// =============================================================================
// Stores
// =============================================================================

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	creds := session.Credentials{Token: "tok", UserID: "u1"}
	require.NoError(t, store.Save(ctx, creds))

	got, err := session.NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, creds, got)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := session.NewRedisStore(client, "laptop", time.Hour)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	creds := session.Credentials{Token: "tok", UserID: "u1"}
	require.NoError(t, store.Save(ctx, creds))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, creds, got)
	assert.Equal(t, time.Hour, mr.TTL(session.RedisKeyPrefix+"laptop"))

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRedisStore_Clear(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := session.NewRedisStore(client, "", 0)
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "t", UserID: "u"}))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, mr.Exists(session.RedisKeyPrefix+"default"))
}

func TestSQLStore_LoadSaveClear(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlx.NewDb(mockDB, "sqlmock")
	store := session.NewSQLStore(db, "work")
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_sessions")).
		WithArgs("work", "tok", "u1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "tok", UserID: "u1"}))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT token, user_id FROM client_sessions WHERE profile = $1")).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id"}).AddRow("tok", "u1"))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Credentials{Token: "tok", UserID: "u1"}, got)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_sessions")).
		WithArgs("work").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Clear(ctx))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT token, user_id")).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id"}))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_EnsureSchema(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS client_sessions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := session.NewSQLStore(sqlx.NewDb(mockDB, "sqlmock"), "")
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
