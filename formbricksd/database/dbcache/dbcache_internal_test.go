package dbcache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cdr.dev/slog/sloggers/slogtest"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
)

// Count keys are minute-bucketed, so a polled count endpoint mints a fresh
// key every minute. Capacity and TTL evictions happen inside tlru without
// touching the tag index, so the index has to be swept once it outgrows
// the entry cap.
func TestIndexSweptOnEviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := databasefake.New()
	pubsub := database.NewPubsubInMemory()

	const maxEntries = 2
	q, err := New(inner, pubsub, slogtest.Make(t, nil), &Options{
		MaxEntries: maxEntries,
		CountTTL:   time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = q.Close()
	})

	classID := uuid.New()
	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 50; i++ {
		_, err := q.GetActionCountSince(ctx, database.GetActionCountSinceParams{
			ActionClassID: classID,
			Since:         base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	q.mu.Lock()
	indexed := len(q.keys)
	q.mu.Unlock()
	require.LessOrEqual(t, indexed, maxEntries)
}
