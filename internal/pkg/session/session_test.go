package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/pkg/testutil"
)

func TestGetOrSet_FirstWriterWins(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	store := NewStore(client, time.Hour)
	sess := store.Open("abc")
	ctx := context.Background()

	first, err := sess.GetOrSet(ctx, "cart_id", "token-1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)

	second, err := sess.GetOrSet(ctx, "cart_id", "token-2")
	require.NoError(t, err)
	assert.Equal(t, "token-1", second)
}

func TestGetOrSet_ConcurrentCallersAgree(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	sess := NewStore(client, time.Hour).Open("race")
	ctx := context.Background()

	const N = 25
	values := make([]string, N)
	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := sess.GetOrSet(ctx, "cart_id", fmt.Sprintf("candidate-%d", i))
			if err == nil {
				values[i] = v
			}
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, values[0])
	for _, v := range values {
		assert.Equal(t, values[0], v)
	}
}

func TestGetOrSet_RefreshesTTL(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	sess := NewStore(client, 30*time.Minute).Open("ttl")

	_, err := sess.GetOrSet(context.Background(), "cart_id", "x")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, mr.TTL("session:ttl"))
}

func TestGet_MissingField(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	sess := NewStore(client, time.Hour).Open("empty")

	v, ok, err := sess.Get(context.Background(), "cart_id")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGet_ExpiredSessionIsEmpty(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	sess := NewStore(client, time.Minute).Open("old")
	ctx := context.Background()

	_, err := sess.GetOrSet(ctx, "cart_id", "token")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, ok, err := sess.Get(ctx, "cart_id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreUnavailable(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	sess := NewStore(client, time.Hour).Open("down")
	mr.Close()

	_, err := sess.GetOrSet(context.Background(), "cart_id", "token")
	assert.Error(t, err)

	_, _, err = sess.Get(context.Background(), "cart_id")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	client, _ := testutil.NewRedis(t)
	sess := NewStore(client, time.Hour).Open("ctx")

	got, ok := FromContext(NewContext(context.Background(), sess))
	require.True(t, ok)
	assert.Equal(t, "ctx", got.ID)
}
