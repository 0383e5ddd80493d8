package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/authz"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
)

type fixture struct {
	store   database.Store
	member  database.User
	outside database.User
	env     database.Environment
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := databasefake.New()
	now := time.Now()

	member, err := store.InsertUser(ctx, database.InsertUserParams{
		ID: uuid.New(), Email: "member@example.com", Username: "member",
		HashedPassword: []byte("x"), CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	outside, err := store.InsertUser(ctx, database.InsertUserParams{
		ID: uuid.New(), Email: "outside@example.com", Username: "outside",
		HashedPassword: []byte("x"), CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	team, err := store.InsertTeam(ctx, database.InsertTeamParams{
		ID: uuid.New(), Name: "team", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = store.InsertTeamMembership(ctx, database.InsertTeamMembershipParams{
		TeamID: team.ID, UserID: member.ID, Role: database.MembershipRoleOwner, CreatedAt: now,
	})
	require.NoError(t, err)

	product, err := store.InsertProduct(ctx, database.InsertProductParams{
		ID: uuid.New(), TeamID: team.ID, Name: "product", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	env, err := store.InsertEnvironment(ctx, database.InsertEnvironmentParams{
		ID: uuid.New(), ProductID: product.ID, Type: database.EnvironmentTypeProduction,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	return fixture{store: store, member: member, outside: outside, env: env}
}

func TestCanUserAccessEnvironment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	ok, err := authz.CanUserAccessEnvironment(ctx, f.store, f.member.ID, f.env.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = authz.CanUserAccessEnvironment(ctx, f.store, f.outside.ID, f.env.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown environment is "no access", not an error.
	ok, err = authz.CanUserAccessEnvironment(ctx, f.store, f.member.ID, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanUserAccessWebhook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now()

	webhook, err := f.store.InsertWebhook(ctx, database.InsertWebhookParams{
		ID: uuid.New(), EnvironmentID: f.env.ID, URL: "https://example.com",
		Secret: "s", Triggers: []string{}, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	ok, err := authz.CanUserAccessWebhook(ctx, f.store, f.member.ID, webhook)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = authz.CanUserAccessWebhook(ctx, f.store, f.outside.ID, webhook)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanUserAccessAttributeClass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now()

	class, err := f.store.InsertAttributeClass(ctx, database.InsertAttributeClassParams{
		ID: uuid.New(), EnvironmentID: f.env.ID, Name: "email",
		Type: database.ClassTypeAutomatic, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	ok, err := authz.CanUserAccessAttributeClass(ctx, f.store, f.member.ID, class)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = authz.CanUserAccessAttributeClass(ctx, f.store, f.outside.ID, class)
	require.NoError(t, err)
	require.False(t, ok)
}
