package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InsertUserParams struct {
	ID             uuid.UUID
	Email          string
	Username       string
	HashedPassword []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const insertUser = `
INSERT INTO users (id, email, username, hashed_password, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, email, username, hashed_password, created_at, updated_at
`

func (q *sqlQuerier) InsertUser(ctx context.Context, arg InsertUserParams) (User, error) {
	var user User
	err := q.db.GetContext(ctx, &user, insertUser,
		arg.ID, arg.Email, arg.Username, arg.HashedPassword, arg.CreatedAt, arg.UpdatedAt)
	return user, err
}

const getUserByID = `
SELECT id, email, username, hashed_password, created_at, updated_at
FROM users WHERE id = $1
`

func (q *sqlQuerier) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var user User
	err := q.db.GetContext(ctx, &user, getUserByID, id)
	return user, err
}

const getUserByEmail = `
SELECT id, email, username, hashed_password, created_at, updated_at
FROM users WHERE LOWER(email) = LOWER($1)
`

func (q *sqlQuerier) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := q.db.GetContext(ctx, &user, getUserByEmail, email)
	return user, err
}

func (q *sqlQuerier) GetUserCount(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

type InsertAPIKeyParams struct {
	ID           string
	UserID       uuid.UUID
	HashedSecret []byte
	LastUsed     time.Time
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

const insertAPIKey = `
INSERT INTO api_keys (id, user_id, hashed_secret, last_used, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, hashed_secret, last_used, expires_at, created_at
`

func (q *sqlQuerier) InsertAPIKey(ctx context.Context, arg InsertAPIKeyParams) (APIKey, error) {
	var key APIKey
	err := q.db.GetContext(ctx, &key, insertAPIKey,
		arg.ID, arg.UserID, arg.HashedSecret, arg.LastUsed, arg.ExpiresAt, arg.CreatedAt)
	return key, err
}

const getAPIKeyByID = `
SELECT id, user_id, hashed_secret, last_used, expires_at, created_at
FROM api_keys WHERE id = $1
`

func (q *sqlQuerier) GetAPIKeyByID(ctx context.Context, id string) (APIKey, error) {
	var key APIKey
	err := q.db.GetContext(ctx, &key, getAPIKeyByID, id)
	return key, err
}

type UpdateAPIKeyLastUsedParams struct {
	ID       string
	LastUsed time.Time
}

func (q *sqlQuerier) UpdateAPIKeyLastUsed(ctx context.Context, arg UpdateAPIKeyLastUsedParams) error {
	_, err := q.db.ExecContext(ctx, `UPDATE api_keys SET last_used = $2 WHERE id = $1`, arg.ID, arg.LastUsed)
	return err
}

func (q *sqlQuerier) DeleteAPIKeyByID(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	return err
}

type InsertTeamParams struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const insertTeam = `
INSERT INTO teams (id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id, name, created_at, updated_at
`

func (q *sqlQuerier) InsertTeam(ctx context.Context, arg InsertTeamParams) (Team, error) {
	var team Team
	err := q.db.GetContext(ctx, &team, insertTeam, arg.ID, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	return team, err
}

func (q *sqlQuerier) GetTeamByID(ctx context.Context, id uuid.UUID) (Team, error) {
	var team Team
	err := q.db.GetContext(ctx, &team, `SELECT id, name, created_at, updated_at FROM teams WHERE id = $1`, id)
	return team, err
}

const getTeamsByUserID = `
SELECT t.id, t.name, t.created_at, t.updated_at
FROM teams t
JOIN team_memberships m ON m.team_id = t.id
WHERE m.user_id = $1
ORDER BY t.created_at
`

func (q *sqlQuerier) GetTeamsByUserID(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	teams := []Team{}
	err := q.db.SelectContext(ctx, &teams, getTeamsByUserID, userID)
	return teams, err
}

type InsertTeamMembershipParams struct {
	TeamID    uuid.UUID
	UserID    uuid.UUID
	Role      MembershipRole
	CreatedAt time.Time
}

const insertTeamMembership = `
INSERT INTO team_memberships (team_id, user_id, role, created_at)
VALUES ($1, $2, $3, $4)
RETURNING team_id, user_id, role, created_at
`

func (q *sqlQuerier) InsertTeamMembership(ctx context.Context, arg InsertTeamMembershipParams) (TeamMembership, error) {
	var membership TeamMembership
	err := q.db.GetContext(ctx, &membership, insertTeamMembership,
		arg.TeamID, arg.UserID, arg.Role, arg.CreatedAt)
	return membership, err
}

type GetTeamMembershipParams struct {
	TeamID uuid.UUID
	UserID uuid.UUID
}

const getTeamMembership = `
SELECT team_id, user_id, role, created_at
FROM team_memberships WHERE team_id = $1 AND user_id = $2
`

func (q *sqlQuerier) GetTeamMembership(ctx context.Context, arg GetTeamMembershipParams) (TeamMembership, error) {
	var membership TeamMembership
	err := q.db.GetContext(ctx, &membership, getTeamMembership, arg.TeamID, arg.UserID)
	return membership, err
}

type InsertProductParams struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const insertProduct = `
INSERT INTO products (id, team_id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, team_id, name, created_at, updated_at
`

func (q *sqlQuerier) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	var product Product
	err := q.db.GetContext(ctx, &product, insertProduct,
		arg.ID, arg.TeamID, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	return product, err
}

func (q *sqlQuerier) GetProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	var product Product
	err := q.db.GetContext(ctx, &product,
		`SELECT id, team_id, name, created_at, updated_at FROM products WHERE id = $1`, id)
	return product, err
}

func (q *sqlQuerier) GetProductsByTeamID(ctx context.Context, teamID uuid.UUID) ([]Product, error) {
	products := []Product{}
	err := q.db.SelectContext(ctx, &products,
		`SELECT id, team_id, name, created_at, updated_at FROM products WHERE team_id = $1 ORDER BY created_at`, teamID)
	return products, err
}

type InsertEnvironmentParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Type      EnvironmentType
	CreatedAt time.Time
	UpdatedAt time.Time
}

const insertEnvironment = `
INSERT INTO environments (id, product_id, type, widget_setup_completed, created_at, updated_at)
VALUES ($1, $2, $3, false, $4, $5)
RETURNING id, product_id, type, widget_setup_completed, created_at, updated_at
`

func (q *sqlQuerier) InsertEnvironment(ctx context.Context, arg InsertEnvironmentParams) (Environment, error) {
	var env Environment
	err := q.db.GetContext(ctx, &env, insertEnvironment,
		arg.ID, arg.ProductID, arg.Type, arg.CreatedAt, arg.UpdatedAt)
	return env, err
}

const getEnvironmentByID = `
SELECT id, product_id, type, widget_setup_completed, created_at, updated_at
FROM environments WHERE id = $1
`

func (q *sqlQuerier) GetEnvironmentByID(ctx context.Context, id uuid.UUID) (Environment, error) {
	var env Environment
	err := q.db.GetContext(ctx, &env, getEnvironmentByID, id)
	return env, err
}

const getEnvironmentsByProductID = `
SELECT id, product_id, type, widget_setup_completed, created_at, updated_at
FROM environments WHERE product_id = $1 ORDER BY type
`

func (q *sqlQuerier) GetEnvironmentsByProductID(ctx context.Context, productID uuid.UUID) ([]Environment, error) {
	envs := []Environment{}
	err := q.db.SelectContext(ctx, &envs, getEnvironmentsByProductID, productID)
	return envs, err
}

type UpdateEnvironmentWidgetSetupParams struct {
	ID                   uuid.UUID
	WidgetSetupCompleted bool
	UpdatedAt            time.Time
}

const updateEnvironmentWidgetSetup = `
UPDATE environments SET widget_setup_completed = $2, updated_at = $3
WHERE id = $1
RETURNING id, product_id, type, widget_setup_completed, created_at, updated_at
`

func (q *sqlQuerier) UpdateEnvironmentWidgetSetup(ctx context.Context, arg UpdateEnvironmentWidgetSetupParams) (Environment, error) {
	var env Environment
	err := q.db.GetContext(ctx, &env, updateEnvironmentWidgetSetup,
		arg.ID, arg.WidgetSetupCompleted, arg.UpdatedAt)
	return env, err
}

type InsertActionClassParams struct {
	ID            uuid.UUID
	EnvironmentID uuid.UUID
	Name          string
	Description   string
	Type          ClassType
	NoCodeConfig  json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const insertActionClass = `
INSERT INTO action_classes (id, environment_id, name, description, type, no_code_config, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, environment_id, name, description, type, no_code_config, created_at, updated_at
`

func (q *sqlQuerier) InsertActionClass(ctx context.Context, arg InsertActionClassParams) (ActionClass, error) {
	var class ActionClass
	err := q.db.GetContext(ctx, &class, insertActionClass,
		arg.ID, arg.EnvironmentID, arg.Name, arg.Description, arg.Type, arg.NoCodeConfig,
		arg.CreatedAt, arg.UpdatedAt)
	return class, err
}

const getActionClassByID = `
SELECT id, environment_id, name, description, type, no_code_config, created_at, updated_at
FROM action_classes WHERE id = $1
`

func (q *sqlQuerier) GetActionClassByID(ctx context.Context, id uuid.UUID) (ActionClass, error) {
	var class ActionClass
	err := q.db.GetContext(ctx, &class, getActionClassByID, id)
	return class, err
}

const getActionClassesByEnvironmentID = `
SELECT id, environment_id, name, description, type, no_code_config, created_at, updated_at
FROM action_classes WHERE environment_id = $1 ORDER BY created_at
`

func (q *sqlQuerier) GetActionClassesByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]ActionClass, error) {
	classes := []ActionClass{}
	err := q.db.SelectContext(ctx, &classes, getActionClassesByEnvironmentID, environmentID)
	return classes, err
}

type GetActionClassByEnvironmentIDAndNameParams struct {
	EnvironmentID uuid.UUID
	Name          string
}

const getActionClassByEnvironmentIDAndName = `
SELECT id, environment_id, name, description, type, no_code_config, created_at, updated_at
FROM action_classes WHERE environment_id = $1 AND name = $2
`

func (q *sqlQuerier) GetActionClassByEnvironmentIDAndName(ctx context.Context, arg GetActionClassByEnvironmentIDAndNameParams) (ActionClass, error) {
	var class ActionClass
	err := q.db.GetContext(ctx, &class, getActionClassByEnvironmentIDAndName, arg.EnvironmentID, arg.Name)
	return class, err
}

type UpdateActionClassParams struct {
	ID           uuid.UUID
	Name         string
	Description  string
	NoCodeConfig json.RawMessage
	UpdatedAt    time.Time
}

const updateActionClass = `
UPDATE action_classes SET name = $2, description = $3, no_code_config = $4, updated_at = $5
WHERE id = $1
RETURNING id, environment_id, name, description, type, no_code_config, created_at, updated_at
`

func (q *sqlQuerier) UpdateActionClass(ctx context.Context, arg UpdateActionClassParams) (ActionClass, error) {
	var class ActionClass
	err := q.db.GetContext(ctx, &class, updateActionClass,
		arg.ID, arg.Name, arg.Description, arg.NoCodeConfig, arg.UpdatedAt)
	return class, err
}

func (q *sqlQuerier) DeleteActionClassByID(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM action_classes WHERE id = $1`, id)
	return err
}

type InsertActionParams struct {
	ID            uuid.UUID
	ActionClassID uuid.UUID
	PersonID      uuid.NullUUID
	CreatedAt     time.Time
}

const insertAction = `
INSERT INTO actions (id, action_class_id, person_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, action_class_id, person_id, created_at
`

func (q *sqlQuerier) InsertAction(ctx context.Context, arg InsertActionParams) (Action, error) {
	var action Action
	err := q.db.GetContext(ctx, &action, insertAction,
		arg.ID, arg.ActionClassID, arg.PersonID, arg.CreatedAt)
	return action, err
}

type GetActionCountSinceParams struct {
	ActionClassID uuid.UUID
	Since         time.Time
}

const getActionCountSince = `
SELECT COUNT(*) FROM actions WHERE action_class_id = $1 AND created_at >= $2
`

func (q *sqlQuerier) GetActionCountSince(ctx context.Context, arg GetActionCountSinceParams) (int64, error) {
	var count int64
	err := q.db.GetContext(ctx, &count, getActionCountSince, arg.ActionClassID, arg.Since)
	return count, err
}

type InsertAttributeClassParams struct {
	ID            uuid.UUID
	EnvironmentID uuid.UUID
	Name          string
	Description   string
	Type          ClassType
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const insertAttributeClass = `
INSERT INTO attribute_classes (id, environment_id, name, description, type, archived, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, false, $6, $7)
RETURNING id, environment_id, name, description, type, archived, created_at, updated_at
`

func (q *sqlQuerier) InsertAttributeClass(ctx context.Context, arg InsertAttributeClassParams) (AttributeClass, error) {
	var class AttributeClass
	err := q.db.GetContext(ctx, &class, insertAttributeClass,
		arg.ID, arg.EnvironmentID, arg.Name, arg.Description, arg.Type, arg.CreatedAt, arg.UpdatedAt)
	return class, err
}

const getAttributeClassByID = `
SELECT id, environment_id, name, description, type, archived, created_at, updated_at
FROM attribute_classes WHERE id = $1
`

func (q *sqlQuerier) GetAttributeClassByID(ctx context.Context, id uuid.UUID) (AttributeClass, error) {
	var class AttributeClass
	err := q.db.GetContext(ctx, &class, getAttributeClassByID, id)
	return class, err
}

const getAttributeClassesByEnvironmentID = `
SELECT id, environment_id, name, description, type, archived, created_at, updated_at
FROM attribute_classes WHERE environment_id = $1 ORDER BY created_at
`

func (q *sqlQuerier) GetAttributeClassesByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]AttributeClass, error) {
	classes := []AttributeClass{}
	err := q.db.SelectContext(ctx, &classes, getAttributeClassesByEnvironmentID, environmentID)
	return classes, err
}

type GetAttributeClassByEnvironmentIDAndNameParams struct {
	EnvironmentID uuid.UUID
	Name          string
}

const getAttributeClassByEnvironmentIDAndName = `
SELECT id, environment_id, name, description, type, archived, created_at, updated_at
FROM attribute_classes WHERE environment_id = $1 AND name = $2
`

func (q *sqlQuerier) GetAttributeClassByEnvironmentIDAndName(ctx context.Context, arg GetAttributeClassByEnvironmentIDAndNameParams) (AttributeClass, error) {
	var class AttributeClass
	err := q.db.GetContext(ctx, &class, getAttributeClassByEnvironmentIDAndName, arg.EnvironmentID, arg.Name)
	return class, err
}

type UpdateAttributeClassParams struct {
	ID          uuid.UUID
	Description string
	Archived    bool
	UpdatedAt   time.Time
}

const updateAttributeClass = `
UPDATE attribute_classes SET description = $2, archived = $3, updated_at = $4
WHERE id = $1
RETURNING id, environment_id, name, description, type, archived, created_at, updated_at
`

func (q *sqlQuerier) UpdateAttributeClass(ctx context.Context, arg UpdateAttributeClassParams) (AttributeClass, error) {
	var class AttributeClass
	err := q.db.GetContext(ctx, &class, updateAttributeClass,
		arg.ID, arg.Description, arg.Archived, arg.UpdatedAt)
	return class, err
}

type UpsertAttributeParams struct {
	ID               uuid.UUID
	AttributeClassID uuid.UUID
	PersonID         uuid.UUID
	Value            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const upsertAttribute = `
INSERT INTO attributes (id, attribute_class_id, person_id, value, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (attribute_class_id, person_id)
DO UPDATE SET value = $4, updated_at = $6
RETURNING id, attribute_class_id, person_id, value, created_at, updated_at
`

func (q *sqlQuerier) UpsertAttribute(ctx context.Context, arg UpsertAttributeParams) (Attribute, error) {
	var attribute Attribute
	err := q.db.GetContext(ctx, &attribute, upsertAttribute,
		arg.ID, arg.AttributeClassID, arg.PersonID, arg.Value, arg.CreatedAt, arg.UpdatedAt)
	return attribute, err
}

const getAttributesByPersonID = `
SELECT id, attribute_class_id, person_id, value, created_at, updated_at
FROM attributes WHERE person_id = $1 ORDER BY created_at
`

func (q *sqlQuerier) GetAttributesByPersonID(ctx context.Context, personID uuid.UUID) ([]Attribute, error) {
	attributes := []Attribute{}
	err := q.db.SelectContext(ctx, &attributes, getAttributesByPersonID, personID)
	return attributes, err
}

type InsertPersonParams struct {
	ID            uuid.UUID
	EnvironmentID uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const insertPerson = `
INSERT INTO people (id, environment_id, created_at, updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id, environment_id, created_at, updated_at
`

func (q *sqlQuerier) InsertPerson(ctx context.Context, arg InsertPersonParams) (Person, error) {
	var person Person
	err := q.db.GetContext(ctx, &person, insertPerson,
		arg.ID, arg.EnvironmentID, arg.CreatedAt, arg.UpdatedAt)
	return person, err
}

func (q *sqlQuerier) GetPersonByID(ctx context.Context, id uuid.UUID) (Person, error) {
	var person Person
	err := q.db.GetContext(ctx, &person,
		`SELECT id, environment_id, created_at, updated_at FROM people WHERE id = $1`, id)
	return person, err
}

type GetPeopleByEnvironmentIDParams struct {
	EnvironmentID uuid.UUID
	Limit         int32
	Offset        int32
}

const getPeopleByEnvironmentID = `
SELECT id, environment_id, created_at, updated_at
FROM people WHERE environment_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

func (q *sqlQuerier) GetPeopleByEnvironmentID(ctx context.Context, arg GetPeopleByEnvironmentIDParams) ([]Person, error) {
	people := []Person{}
	err := q.db.SelectContext(ctx, &people, getPeopleByEnvironmentID,
		arg.EnvironmentID, arg.Limit, arg.Offset)
	return people, err
}

func (q *sqlQuerier) DeletePersonByID(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id)
	return err
}

type InsertWebhookParams struct {
	ID            uuid.UUID
	EnvironmentID uuid.UUID
	URL           string
	Secret        string
	Triggers      []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const insertWebhook = `
INSERT INTO webhooks (id, environment_id, url, secret, triggers, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, environment_id, url, secret, triggers, created_at, updated_at
`

func (q *sqlQuerier) InsertWebhook(ctx context.Context, arg InsertWebhookParams) (Webhook, error) {
	var webhook Webhook
	err := q.db.GetContext(ctx, &webhook, insertWebhook,
		arg.ID, arg.EnvironmentID, arg.URL, arg.Secret, pq.Array(arg.Triggers),
		arg.CreatedAt, arg.UpdatedAt)
	return webhook, err
}

const getWebhookByID = `
SELECT id, environment_id, url, secret, triggers, created_at, updated_at
FROM webhooks WHERE id = $1
`

func (q *sqlQuerier) GetWebhookByID(ctx context.Context, id uuid.UUID) (Webhook, error) {
	var webhook Webhook
	err := q.db.GetContext(ctx, &webhook, getWebhookByID, id)
	return webhook, err
}

const getWebhooksByEnvironmentID = `
SELECT id, environment_id, url, secret, triggers, created_at, updated_at
FROM webhooks WHERE environment_id = $1 ORDER BY created_at
`

func (q *sqlQuerier) GetWebhooksByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]Webhook, error) {
	webhooks := []Webhook{}
	err := q.db.SelectContext(ctx, &webhooks, getWebhooksByEnvironmentID, environmentID)
	return webhooks, err
}

type UpdateWebhookParams struct {
	ID        uuid.UUID
	URL       string
	Triggers  []string
	UpdatedAt time.Time
}

const updateWebhook = `
UPDATE webhooks SET url = $2, triggers = $3, updated_at = $4
WHERE id = $1
RETURNING id, environment_id, url, secret, triggers, created_at, updated_at
`

func (q *sqlQuerier) UpdateWebhook(ctx context.Context, arg UpdateWebhookParams) (Webhook, error) {
	var webhook Webhook
	err := q.db.GetContext(ctx, &webhook, updateWebhook,
		arg.ID, arg.URL, pq.Array(arg.Triggers), arg.UpdatedAt)
	return webhook, err
}

func (q *sqlQuerier) DeleteWebhookByID(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	return err
}

type InsertSurveyParams struct {
	ID            uuid.UUID
	EnvironmentID uuid.UUID
	Name          string
	Status        SurveyStatus
	Questions     json.RawMessage
	TriggerNames  []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const insertSurvey = `
INSERT INTO surveys (id, environment_id, name, status, questions, trigger_names, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, environment_id, name, status, questions, trigger_names, created_at, updated_at
`

func (q *sqlQuerier) InsertSurvey(ctx context.Context, arg InsertSurveyParams) (Survey, error) {
	var survey Survey
	err := q.db.GetContext(ctx, &survey, insertSurvey,
		arg.ID, arg.EnvironmentID, arg.Name, arg.Status, arg.Questions,
		pq.Array(arg.TriggerNames), arg.CreatedAt, arg.UpdatedAt)
	return survey, err
}

const getSurveyByID = `
SELECT id, environment_id, name, status, questions, trigger_names, created_at, updated_at
FROM surveys WHERE id = $1
`

func (q *sqlQuerier) GetSurveyByID(ctx context.Context, id uuid.UUID) (Survey, error) {
	var survey Survey
	err := q.db.GetContext(ctx, &survey, getSurveyByID, id)
	return survey, err
}

const getSurveysByEnvironmentID = `
SELECT id, environment_id, name, status, questions, trigger_names, created_at, updated_at
FROM surveys WHERE environment_id = $1 ORDER BY created_at DESC
`

func (q *sqlQuerier) GetSurveysByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]Survey, error) {
	surveys := []Survey{}
	err := q.db.SelectContext(ctx, &surveys, getSurveysByEnvironmentID, environmentID)
	return surveys, err
}

type UpdateSurveyParams struct {
	ID           uuid.UUID
	Name         string
	Status       SurveyStatus
	Questions    json.RawMessage
	TriggerNames []string
	UpdatedAt    time.Time
}

const updateSurvey = `
UPDATE surveys SET name = $2, status = $3, questions = $4, trigger_names = $5, updated_at = $6
WHERE id = $1
RETURNING id, environment_id, name, status, questions, trigger_names, created_at, updated_at
`

func (q *sqlQuerier) UpdateSurvey(ctx context.Context, arg UpdateSurveyParams) (Survey, error) {
	var survey Survey
	err := q.db.GetContext(ctx, &survey, updateSurvey,
		arg.ID, arg.Name, arg.Status, arg.Questions, pq.Array(arg.TriggerNames), arg.UpdatedAt)
	return survey, err
}

func (q *sqlQuerier) DeleteSurveyByID(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	return err
}

type InsertResponseParams struct {
	ID        uuid.UUID
	SurveyID  uuid.UUID
	PersonID  uuid.NullUUID
	Finished  bool
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

const insertResponse = `
INSERT INTO responses (id, survey_id, person_id, finished, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, survey_id, person_id, finished, data, created_at, updated_at
`

func (q *sqlQuerier) InsertResponse(ctx context.Context, arg InsertResponseParams) (Response, error) {
	var response Response
	err := q.db.GetContext(ctx, &response, insertResponse,
		arg.ID, arg.SurveyID, arg.PersonID, arg.Finished, arg.Data,
		arg.CreatedAt, arg.UpdatedAt)
	return response, err
}

const getResponseByID = `
SELECT id, survey_id, person_id, finished, data, created_at, updated_at
FROM responses WHERE id = $1
`

func (q *sqlQuerier) GetResponseByID(ctx context.Context, id uuid.UUID) (Response, error) {
	var response Response
	err := q.db.GetContext(ctx, &response, getResponseByID, id)
	return response, err
}

type GetResponsesBySurveyIDParams struct {
	SurveyID uuid.UUID
	Limit    int32
	Offset   int32
}

const getResponsesBySurveyID = `
SELECT id, survey_id, person_id, finished, data, created_at, updated_at
FROM responses WHERE survey_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

func (q *sqlQuerier) GetResponsesBySurveyID(ctx context.Context, arg GetResponsesBySurveyIDParams) ([]Response, error) {
	responses := []Response{}
	err := q.db.SelectContext(ctx, &responses, getResponsesBySurveyID,
		arg.SurveyID, arg.Limit, arg.Offset)
	return responses, err
}

func (q *sqlQuerier) GetResponseCountBySurveyID(ctx context.Context, surveyID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM responses WHERE survey_id = $1`, surveyID)
	return count, err
}

type UpdateResponseParams struct {
	ID        uuid.UUID
	Finished  bool
	Data      json.RawMessage
	UpdatedAt time.Time
}

const updateResponse = `
UPDATE responses SET finished = $2, data = $3, updated_at = $4
WHERE id = $1
RETURNING id, survey_id, person_id, finished, data, created_at, updated_at
`

func (q *sqlQuerier) UpdateResponse(ctx context.Context, arg UpdateResponseParams) (Response, error) {
	var response Response
	err := q.db.GetContext(ctx, &response, updateResponse,
		arg.ID, arg.Finished, arg.Data, arg.UpdatedAt)
	return response, err
}
