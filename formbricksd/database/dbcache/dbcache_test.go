package dbcache_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cdr.dev/slog/sloggers/slogtest"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/dbcache"
	"github.com/vikaspatil0021/formbricks/testutil"
)

func setup(t *testing.T, opts *dbcache.Options) (database.Store, *dbcache.Querier, database.Pubsub) {
	t.Helper()
	inner := databasefake.New()
	pubsub := database.NewPubsubInMemory()
	cached, err := dbcache.New(inner, pubsub, slogtest.Make(t, nil), opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cached.Close()
	})
	return inner, cached, pubsub
}

func seedEnvironment(t *testing.T, store database.Store) database.Environment {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	team, err := store.InsertTeam(ctx, database.InsertTeamParams{
		ID: uuid.New(), Name: "acme", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	product, err := store.InsertProduct(ctx, database.InsertProductParams{
		ID: uuid.New(), TeamID: team.ID, Name: "acme app", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	env, err := store.InsertEnvironment(ctx, database.InsertEnvironmentParams{
		ID: uuid.New(), ProductID: product.ID, Type: database.EnvironmentTypeProduction,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return env
}

func insertWebhook(t *testing.T, store database.Store, environmentID uuid.UUID) database.Webhook {
	t.Helper()
	now := time.Now()
	webhook, err := store.InsertWebhook(context.Background(), database.InsertWebhookParams{
		ID:            uuid.New(),
		EnvironmentID: environmentID,
		URL:           "https://example.com/hook",
		Secret:        "whsec",
		Triggers:      []string{string(database.WebhookTriggerResponseCreated)},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	return webhook
}

// hookStore lets a test intercept individual queries on the way to the
// inner store.
type hookStore struct {
	database.Store
	getWebhooksByEnvironmentID func(context.Context, uuid.UUID) ([]database.Webhook, error)
	getWebhookByID             func(context.Context, uuid.UUID) (database.Webhook, error)
}

func (s *hookStore) GetWebhooksByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]database.Webhook, error) {
	if s.getWebhooksByEnvironmentID != nil {
		return s.getWebhooksByEnvironmentID(ctx, environmentID)
	}
	return s.Store.GetWebhooksByEnvironmentID(ctx, environmentID)
}

func (s *hookStore) GetWebhookByID(ctx context.Context, id uuid.UUID) (database.Webhook, error) {
	if s.getWebhookByID != nil {
		return s.getWebhookByID(ctx, id)
	}
	return s.Store.GetWebhookByID(ctx, id)
}

func TestServesCachedReads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner, cached, _ := setup(t, nil)
	env := seedEnvironment(t, inner)

	webhooks, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 0)

	// Write behind the cache's back. The stale empty list must keep
	// being served until the tag is invalidated.
	insertWebhook(t, inner, env.ID)

	webhooks, err = cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 0)
}

func TestInvalidateTag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner, cached, _ := setup(t, nil)
	env := seedEnvironment(t, inner)

	_, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)

	insertWebhook(t, inner, env.ID)
	cached.Invalidate(dbcache.ScopeTag(env.ID, "webhooks"))

	webhooks, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 1)
}

func TestWriteThroughInvalidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner, cached, _ := setup(t, nil)
	env := seedEnvironment(t, inner)

	webhooks, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 0)

	webhook := insertWebhook(t, cached, env.ID)

	webhooks, err = cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 1)
	require.Equal(t, webhook.ID, webhooks[0].ID)

	// Update invalidates both the entity tag and the scope tag.
	fetched, err := cached.GetWebhookByID(ctx, webhook.ID)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/hook", fetched.URL)

	_, err = cached.UpdateWebhook(ctx, database.UpdateWebhookParams{
		ID:        webhook.ID,
		URL:       "https://example.com/hook2",
		Triggers:  webhook.Triggers,
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	fetched, err = cached.GetWebhookByID(ctx, webhook.ID)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/hook2", fetched.URL)

	require.NoError(t, cached.DeleteWebhookByID(ctx, webhook.ID))
	webhooks, err = cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 0)
}

func TestConcurrentWriteDiscardsFill(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := databasefake.New()
	pubsub := database.NewPubsubInMemory()

	// Pause the first uncached read after it has queried the inner store
	// but before the cache records the result.
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	hooked := &hookStore{Store: inner}
	hooked.getWebhooksByEnvironmentID = func(ctx context.Context, environmentID uuid.UUID) ([]database.Webhook, error) {
		webhooks, err := inner.GetWebhooksByEnvironmentID(ctx, environmentID)
		once.Do(func() {
			close(entered)
			<-release
		})
		return webhooks, err
	}

	cached, err := dbcache.New(hooked, pubsub, slogtest.Make(t, nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cached.Close()
	})
	env := seedEnvironment(t, inner)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	}()
	<-entered

	// This write commits and invalidates while the read above is still in
	// flight; its pre-write result must not land in the cache.
	insertWebhook(t, cached, env.ID)
	close(release)
	<-done

	webhooks, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	require.Len(t, webhooks, 1)
}

func TestDeleteInvalidatesEntityTag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := databasefake.New()
	pubsub := database.NewPubsubInMemory()
	hooked := &hookStore{Store: inner}

	cached, err := dbcache.New(hooked, pubsub, slogtest.Make(t, nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cached.Close()
	})
	env := seedEnvironment(t, inner)
	webhook := insertWebhook(t, cached, env.ID)

	fetched, err := cached.GetWebhookByID(ctx, webhook.ID)
	require.NoError(t, err)
	require.Equal(t, webhook.ID, fetched.ID)

	// The pre-delete lookup can miss when another request deletes the row
	// first; the cached entry must still be evicted.
	calls := 0
	hooked.getWebhookByID = func(ctx context.Context, id uuid.UUID) (database.Webhook, error) {
		calls++
		if calls == 1 {
			return database.Webhook{}, sql.ErrNoRows
		}
		return inner.GetWebhookByID(ctx, id)
	}

	require.NoError(t, cached.DeleteWebhookByID(ctx, webhook.ID))

	_, err = cached.GetWebhookByID(ctx, webhook.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCrossReplicaInvalidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := databasefake.New()
	pubsub := database.NewPubsubInMemory()

	replicaA, err := dbcache.New(inner, pubsub, slogtest.Make(t, nil), nil)
	require.NoError(t, err)
	defer replicaA.Close()
	replicaB, err := dbcache.New(inner, pubsub, slogtest.Make(t, nil), nil)
	require.NoError(t, err)
	defer replicaB.Close()

	env := seedEnvironment(t, inner)

	// Warm both replica caches.
	_, err = replicaA.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)
	_, err = replicaB.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)

	// A write through replica A must evict replica B's entry.
	insertWebhook(t, replicaA, env.ID)

	require.Eventually(t, func() bool {
		webhooks, err := replicaB.GetWebhooksByEnvironmentID(ctx, env.ID)
		return err == nil && len(webhooks) == 1
	}, testutil.WaitShort, testutil.IntervalFast)
}

func TestTTLExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner, cached, _ := setup(t, &dbcache.Options{TTL: time.Millisecond})
	env := seedEnvironment(t, inner)

	_, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
	require.NoError(t, err)

	insertWebhook(t, inner, env.ID)

	require.Eventually(t, func() bool {
		webhooks, err := cached.GetWebhooksByEnvironmentID(ctx, env.ID)
		return err == nil && len(webhooks) == 1
	}, testutil.WaitShort, testutil.IntervalFast)
}

func TestMissesNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner, cached, _ := setup(t, nil)
	env := seedEnvironment(t, inner)

	id := uuid.New()
	_, err := cached.GetWebhookByID(ctx, id)
	require.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now()
	_, err = inner.InsertWebhook(ctx, database.InsertWebhookParams{
		ID: id, EnvironmentID: env.ID, URL: "https://example.com", Secret: "s",
		Triggers: []string{}, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	webhook, err := cached.GetWebhookByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, webhook.ID)
}

func TestActionCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner, cached, _ := setup(t, nil)
	env := seedEnvironment(t, inner)

	now := time.Now()
	class, err := inner.InsertActionClass(ctx, database.InsertActionClassParams{
		ID: uuid.New(), EnvironmentID: env.ID, Name: "clicked",
		Type: database.ClassTypeCode, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	since := now.Add(-time.Hour)
	count, err := cached.GetActionCountSince(ctx, database.GetActionCountSinceParams{
		ActionClassID: class.ID, Since: since,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, count)

	// Tracking an action through the wrapper invalidates the count tag.
	_, err = cached.InsertAction(ctx, database.InsertActionParams{
		ID: uuid.New(), ActionClassID: class.ID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	count, err = cached.GetActionCountSince(ctx, database.GetActionCountSinceParams{
		ActionClassID: class.ID, Since: since,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestRefusesDoubleWrap(t *testing.T) {
	t.Parallel()
	inner := databasefake.New()
	pubsub := database.NewPubsubInMemory()

	cached, err := dbcache.New(inner, pubsub, slogtest.Make(t, nil), nil)
	require.NoError(t, err)
	defer cached.Close()

	_, err = dbcache.New(cached, pubsub, slogtest.Make(t, nil), nil)
	require.Error(t, err)
}
