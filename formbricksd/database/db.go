// Package database connects to external services for stateful storage.
//
// All queries are hand-written SQL executed through sqlx. The Store
// interface is the single seam for wrapping: dbcache decorates it with
// tag-based caching, databasefake replaces it in tests.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store contains all queryable database functions.
// It extends the querier to add transaction support.
type Store interface {
	querier
	// wrapper allows us to detect if the interface has been wrapped.
	wrapper

	Ping(ctx context.Context) (time.Duration, error)
	InTx(func(Store) error, *TxOptions) error
}

type wrapper interface {
	// Wrappers returns a list of wrappers that have been applied to the
	// store. Used to avoid double-wrapping.
	Wrappers() []string
}

// querier contains every query the API layer issues. A wrapping store must
// implement all of these.
type querier interface {
	// Users
	InsertUser(ctx context.Context, arg InsertUserParams) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserCount(ctx context.Context) (int64, error)

	// API keys (session tokens)
	InsertAPIKey(ctx context.Context, arg InsertAPIKeyParams) (APIKey, error)
	GetAPIKeyByID(ctx context.Context, id string) (APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, arg UpdateAPIKeyLastUsedParams) error
	DeleteAPIKeyByID(ctx context.Context, id string) error

	// Teams and memberships
	InsertTeam(ctx context.Context, arg InsertTeamParams) (Team, error)
	GetTeamByID(ctx context.Context, id uuid.UUID) (Team, error)
	GetTeamsByUserID(ctx context.Context, userID uuid.UUID) ([]Team, error)
	InsertTeamMembership(ctx context.Context, arg InsertTeamMembershipParams) (TeamMembership, error)
	GetTeamMembership(ctx context.Context, arg GetTeamMembershipParams) (TeamMembership, error)

	// Products
	InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (Product, error)
	GetProductsByTeamID(ctx context.Context, teamID uuid.UUID) ([]Product, error)

	// Environments
	InsertEnvironment(ctx context.Context, arg InsertEnvironmentParams) (Environment, error)
	GetEnvironmentByID(ctx context.Context, id uuid.UUID) (Environment, error)
	GetEnvironmentsByProductID(ctx context.Context, productID uuid.UUID) ([]Environment, error)
	UpdateEnvironmentWidgetSetup(ctx context.Context, arg UpdateEnvironmentWidgetSetupParams) (Environment, error)

	// Action classes and actions
	InsertActionClass(ctx context.Context, arg InsertActionClassParams) (ActionClass, error)
	GetActionClassByID(ctx context.Context, id uuid.UUID) (ActionClass, error)
	GetActionClassesByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]ActionClass, error)
	GetActionClassByEnvironmentIDAndName(ctx context.Context, arg GetActionClassByEnvironmentIDAndNameParams) (ActionClass, error)
	UpdateActionClass(ctx context.Context, arg UpdateActionClassParams) (ActionClass, error)
	DeleteActionClassByID(ctx context.Context, id uuid.UUID) error
	InsertAction(ctx context.Context, arg InsertActionParams) (Action, error)
	GetActionCountSince(ctx context.Context, arg GetActionCountSinceParams) (int64, error)

	// Attribute classes and attributes
	InsertAttributeClass(ctx context.Context, arg InsertAttributeClassParams) (AttributeClass, error)
	GetAttributeClassByID(ctx context.Context, id uuid.UUID) (AttributeClass, error)
	GetAttributeClassesByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]AttributeClass, error)
	GetAttributeClassByEnvironmentIDAndName(ctx context.Context, arg GetAttributeClassByEnvironmentIDAndNameParams) (AttributeClass, error)
	UpdateAttributeClass(ctx context.Context, arg UpdateAttributeClassParams) (AttributeClass, error)
	UpsertAttribute(ctx context.Context, arg UpsertAttributeParams) (Attribute, error)
	GetAttributesByPersonID(ctx context.Context, personID uuid.UUID) ([]Attribute, error)

	// People
	InsertPerson(ctx context.Context, arg InsertPersonParams) (Person, error)
	GetPersonByID(ctx context.Context, id uuid.UUID) (Person, error)
	GetPeopleByEnvironmentID(ctx context.Context, arg GetPeopleByEnvironmentIDParams) ([]Person, error)
	DeletePersonByID(ctx context.Context, id uuid.UUID) error

	// Webhooks
	InsertWebhook(ctx context.Context, arg InsertWebhookParams) (Webhook, error)
	GetWebhookByID(ctx context.Context, id uuid.UUID) (Webhook, error)
	GetWebhooksByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]Webhook, error)
	UpdateWebhook(ctx context.Context, arg UpdateWebhookParams) (Webhook, error)
	DeleteWebhookByID(ctx context.Context, id uuid.UUID) error

	// Surveys and responses
	InsertSurvey(ctx context.Context, arg InsertSurveyParams) (Survey, error)
	GetSurveyByID(ctx context.Context, id uuid.UUID) (Survey, error)
	GetSurveysByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]Survey, error)
	UpdateSurvey(ctx context.Context, arg UpdateSurveyParams) (Survey, error)
	DeleteSurveyByID(ctx context.Context, id uuid.UUID) error
	InsertResponse(ctx context.Context, arg InsertResponseParams) (Response, error)
	GetResponseByID(ctx context.Context, id uuid.UUID) (Response, error)
	GetResponsesBySurveyID(ctx context.Context, arg GetResponsesBySurveyIDParams) ([]Response, error)
	GetResponseCountBySurveyID(ctx context.Context, surveyID uuid.UUID) (int64, error)
	UpdateResponse(ctx context.Context, arg UpdateResponseParams) (Response, error)
}

// DBTX represents a database connection or transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// New creates a database store using a SQL database connection.
func New(sdb *sql.DB) Store {
	dbx := sqlx.NewDb(sdb, "postgres")
	return &sqlQuerier{
		db:  dbx,
		sdb: dbx,
		// This is an arbitrary number.
		serialRetryCount: 3,
	}
}

// TxOptions is used to pass execution options to InTx.
type TxOptions struct {
	// Isolation is the transaction isolation level.
	// If zero, the driver or database's default level is used.
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

type sqlQuerier struct {
	sdb *sqlx.DB
	db  DBTX

	// serialRetryCount is the number of times to retry a transaction
	// if it fails with a serialization error.
	serialRetryCount int
}

func (*sqlQuerier) Wrappers() []string {
	return []string{}
}

// Ping returns the time it takes to ping the database.
func (q *sqlQuerier) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := q.sdb.PingContext(ctx)
	return time.Since(start), err
}

func (q *sqlQuerier) InTx(function func(Store) error, txOpts *TxOptions) error {
	_, inTx := q.db.(*sqlx.Tx)
	if txOpts == nil {
		txOpts = &TxOptions{Isolation: sql.LevelDefault}
	}
	sqlOpts := &sql.TxOptions{
		Isolation: txOpts.Isolation,
		ReadOnly:  txOpts.ReadOnly,
	}

	// Serializable transactions are run in a retry loop, because the
	// database may abort them on conflict. Nested InTx calls reuse the
	// outer transaction, so the outer call owns the retries.
	if !inTx && sqlOpts.Isolation == sql.LevelSerializable {
		var err error
		attempts := 0
		for attempts = 0; attempts < q.serialRetryCount; attempts++ {
			err = q.runTx(function, sqlOpts)
			if err == nil {
				return nil
			}
			if !IsSerializedError(err) {
				return err
			}
		}
		return fmt.Errorf("transaction failed after %d attempts: %w", attempts, err)
	}
	return q.runTx(function, sqlOpts)
}

func (q *sqlQuerier) runTx(function func(Store) error, txOpts *sql.TxOptions) error {
	if _, ok := q.db.(*sqlx.Tx); ok {
		// Already in a transaction, reuse it. The outer call handles
		// commit and rollback.
		err := function(q)
		if err != nil {
			return fmt.Errorf("execute transaction: %w", err)
		}
		return nil
	}

	transaction, err := q.sdb.BeginTxx(context.Background(), txOpts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		rerr := transaction.Rollback()
		if rerr == nil || errors.Is(rerr, sql.ErrTxDone) {
			// Transaction committed successfully.
			return
		}
		err = fmt.Errorf("defer (%s): %w", rerr.Error(), err)
	}()
	err = function(&sqlQuerier{db: transaction, sdb: q.sdb})
	if err != nil {
		return fmt.Errorf("execute transaction: %w", err)
	}
	err = transaction.Commit()
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
