package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/pkg/session"
	"github.com/your-org/bookstore-backend/internal/pkg/testutil"
)

func TestResolveCartToken_NoSession(t *testing.T) {
	token, err := ResolveCartToken(context.Background())
	assert.ErrorIs(t, err, ErrSessionUnavailable)
	assert.NotErrorIs(t, err, ErrSessionStoreUnavailable)
	assert.Empty(t, token)
}

func TestResolveCartToken_StablePerSession(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	store := session.NewStore(client, time.Hour)
	ctx := session.NewContext(context.Background(), store.Open("browser-1"))

	first, err := ResolveCartToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := ResolveCartToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveCartToken_DistinctSessions(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	store := session.NewStore(client, time.Hour)

	a, err := ResolveCartToken(session.NewContext(context.Background(), store.Open("browser-a")))
	require.NoError(t, err)
	b, err := ResolveCartToken(session.NewContext(context.Background(), store.Open("browser-b")))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestResolveCartToken_ReusesExistingSessionValue(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	mr.HSet("session:browser-x", cartSessionKey, "existing-token")
	store := session.NewStore(client, time.Hour)

	token, err := ResolveCartToken(session.NewContext(context.Background(), store.Open("browser-x")))
	require.NoError(t, err)
	assert.Equal(t, "existing-token", token)
}

func TestResolveCartToken_StoreDown(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := session.NewStore(client, time.Hour)
	mr.Close()

	_, err := ResolveCartToken(session.NewContext(context.Background(), store.Open("browser-down")))
	assert.ErrorIs(t, err, ErrSessionStoreUnavailable)
	assert.ErrorIs(t, err, ErrSessionUnavailable)
}

func TestLookupCartToken_DoesNotMint(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := session.NewStore(client, time.Hour)
	ctx := session.NewContext(context.Background(), store.Open("browser-lookup"))

	_, found, err := LookupCartToken(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("session:browser-lookup"))

	minted, err := ResolveCartToken(ctx)
	require.NoError(t, err)

	token, found, err := LookupCartToken(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, minted, token)
}

func TestLookupCartToken_Errors(t *testing.T) {
	_, _, err := LookupCartToken(context.Background())
	assert.ErrorIs(t, err, ErrSessionUnavailable)

	client, mr := testutil.NewRedis(t)
	store := session.NewStore(client, time.Hour)
	mr.Close()

	_, _, err = LookupCartToken(session.NewContext(context.Background(), store.Open("browser-down")))
	assert.ErrorIs(t, err, ErrSessionStoreUnavailable)
}
