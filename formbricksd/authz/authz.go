// Package authz answers "may this user touch this entity" by walking the
// tenancy chain: entity -> environment -> product -> team -> membership.
// The checks are plain boolean lookups; a missing row anywhere along the
// chain means no access, not an error.
package authz

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
)

// CanUserAccessTeam reports whether the user is a member of the team.
func CanUserAccessTeam(ctx context.Context, store database.Store, userID, teamID uuid.UUID) (bool, error) {
	_, err := store.GetTeamMembership(ctx, database.GetTeamMembershipParams{
		TeamID: teamID,
		UserID: userID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, xerrors.Errorf("get team membership: %w", err)
	}
	return true, nil
}

// CanUserAccessProduct reports whether the user belongs to the team that
// owns the product.
func CanUserAccessProduct(ctx context.Context, store database.Store, userID, productID uuid.UUID) (bool, error) {
	product, err := store.GetProductByID(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, xerrors.Errorf("get product: %w", err)
	}
	return CanUserAccessTeam(ctx, store, userID, product.TeamID)
}

// CanUserAccessEnvironment reports whether the user belongs to the team
// that owns the environment's product.
func CanUserAccessEnvironment(ctx context.Context, store database.Store, userID, environmentID uuid.UUID) (bool, error) {
	environment, err := store.GetEnvironmentByID(ctx, environmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, xerrors.Errorf("get environment: %w", err)
	}
	return CanUserAccessProduct(ctx, store, userID, environment.ProductID)
}

// CanUserAccessWebhook reports whether the user may access the webhook's
// environment.
func CanUserAccessWebhook(ctx context.Context, store database.Store, userID uuid.UUID, webhook database.Webhook) (bool, error) {
	return CanUserAccessEnvironment(ctx, store, userID, webhook.EnvironmentID)
}

// CanUserAccessActionClass reports whether the user may access the action
// class's environment.
func CanUserAccessActionClass(ctx context.Context, store database.Store, userID uuid.UUID, class database.ActionClass) (bool, error) {
	return CanUserAccessEnvironment(ctx, store, userID, class.EnvironmentID)
}

// CanUserAccessAttributeClass reports whether the user may access the
// attribute class's environment.
func CanUserAccessAttributeClass(ctx context.Context, store database.Store, userID uuid.UUID, class database.AttributeClass) (bool, error) {
	return CanUserAccessEnvironment(ctx, store, userID, class.EnvironmentID)
}

// CanUserAccessPerson reports whether the user may access the person's
// environment.
func CanUserAccessPerson(ctx context.Context, store database.Store, userID uuid.UUID, person database.Person) (bool, error) {
	return CanUserAccessEnvironment(ctx, store, userID, person.EnvironmentID)
}

// CanUserAccessSurvey reports whether the user may access the survey's
// environment.
func CanUserAccessSurvey(ctx context.Context, store database.Store, userID uuid.UUID, survey database.Survey) (bool, error) {
	return CanUserAccessEnvironment(ctx, store, userID, survey.EnvironmentID)
}

// CanUserAccessResponse resolves the response's survey and checks survey
// access.
func CanUserAccessResponse(ctx context.Context, store database.Store, userID uuid.UUID, response database.Response) (bool, error) {
	survey, err := store.GetSurveyByID(ctx, response.SurveyID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, xerrors.Errorf("get survey: %w", err)
	}
	return CanUserAccessSurvey(ctx, store, userID, survey)
}
