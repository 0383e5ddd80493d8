package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EnvironmentType separates production traffic from development traffic
// inside a single product.
type EnvironmentType string

const (
	EnvironmentTypeProduction  EnvironmentType = "production"
	EnvironmentTypeDevelopment EnvironmentType = "development"
)

func (e EnvironmentType) Valid() bool {
	switch e {
	case EnvironmentTypeProduction, EnvironmentTypeDevelopment:
		return true
	default:
		return false
	}
}

// MembershipRole is the role a user holds within a team. Roles are flat;
// there is no delegation or composition.
type MembershipRole string

const (
	MembershipRoleOwner     MembershipRole = "owner"
	MembershipRoleAdmin     MembershipRole = "admin"
	MembershipRoleDeveloper MembershipRole = "developer"
	MembershipRoleViewer    MembershipRole = "viewer"
)

func (r MembershipRole) Valid() bool {
	switch r {
	case MembershipRoleOwner, MembershipRoleAdmin, MembershipRoleDeveloper, MembershipRoleViewer:
		return true
	default:
		return false
	}
}

// ClassType describes how an action or attribute class came to exist.
// "automatic" classes are seeded by the system and cannot be deleted.
type ClassType string

const (
	ClassTypeCode      ClassType = "code"
	ClassTypeNoCode    ClassType = "noCode"
	ClassTypeAutomatic ClassType = "automatic"
)

func (t ClassType) Valid() bool {
	switch t {
	case ClassTypeCode, ClassTypeNoCode, ClassTypeAutomatic:
		return true
	default:
		return false
	}
}

// WebhookTrigger names a response lifecycle event a webhook subscribes to.
type WebhookTrigger string

const (
	WebhookTriggerResponseCreated  WebhookTrigger = "responseCreated"
	WebhookTriggerResponseUpdated  WebhookTrigger = "responseUpdated"
	WebhookTriggerResponseFinished WebhookTrigger = "responseFinished"
)

func (t WebhookTrigger) Valid() bool {
	switch t {
	case WebhookTriggerResponseCreated, WebhookTriggerResponseUpdated, WebhookTriggerResponseFinished:
		return true
	default:
		return false
	}
}

// SurveyStatus is the lifecycle state of a survey. Only inProgress surveys
// are served to the widget.
type SurveyStatus string

const (
	SurveyStatusDraft      SurveyStatus = "draft"
	SurveyStatusInProgress SurveyStatus = "inProgress"
	SurveyStatusPaused     SurveyStatus = "paused"
	SurveyStatusCompleted  SurveyStatus = "completed"
)

func (s SurveyStatus) Valid() bool {
	switch s {
	case SurveyStatusDraft, SurveyStatusInProgress, SurveyStatusPaused, SurveyStatusCompleted:
		return true
	default:
		return false
	}
}

type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Username       string    `db:"username" json:"username"`
	HashedPassword []byte    `db:"hashed_password" json:"hashed_password"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// APIKey is a session token record. The secret is only held hashed; the
// wire format of a token is "<id>-<secret>".
type APIKey struct {
	ID           string    `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	HashedSecret []byte    `db:"hashed_secret" json:"hashed_secret"`
	LastUsed     time.Time `db:"last_used" json:"last_used"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Team struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type TeamMembership struct {
	TeamID    uuid.UUID      `db:"team_id" json:"team_id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Role      MembershipRole `db:"role" json:"role"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

type Product struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TeamID    uuid.UUID `db:"team_id" json:"team_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Environment struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	ProductID            uuid.UUID       `db:"product_id" json:"product_id"`
	Type                 EnvironmentType `db:"type" json:"type"`
	WidgetSetupCompleted bool            `db:"widget_setup_completed" json:"widget_setup_completed"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

type ActionClass struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	EnvironmentID uuid.UUID       `db:"environment_id" json:"environment_id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Type          ClassType       `db:"type" json:"type"`
	NoCodeConfig  json.RawMessage `db:"no_code_config" json:"no_code_config"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Action is one occurrence of an action class, optionally attributed to a
// person. Rows are append-only.
type Action struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	ActionClassID uuid.UUID     `db:"action_class_id" json:"action_class_id"`
	PersonID      uuid.NullUUID `db:"person_id" json:"person_id"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

type AttributeClass struct {
	ID            uuid.UUID `db:"id" json:"id"`
	EnvironmentID uuid.UUID `db:"environment_id" json:"environment_id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Type          ClassType `db:"type" json:"type"`
	Archived      bool      `db:"archived" json:"archived"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Attribute struct {
	ID               uuid.UUID `db:"id" json:"id"`
	AttributeClassID uuid.UUID `db:"attribute_class_id" json:"attribute_class_id"`
	PersonID         uuid.UUID `db:"person_id" json:"person_id"`
	Value            string    `db:"value" json:"value"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type Person struct {
	ID            uuid.UUID `db:"id" json:"id"`
	EnvironmentID uuid.UUID `db:"environment_id" json:"environment_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Webhook struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	EnvironmentID uuid.UUID      `db:"environment_id" json:"environment_id"`
	URL           string         `db:"url" json:"url"`
	Secret        string         `db:"secret" json:"secret"`
	Triggers      pq.StringArray `db:"triggers" json:"triggers"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// HasTrigger reports whether the webhook subscribes to the given trigger.
func (w Webhook) HasTrigger(trigger WebhookTrigger) bool {
	for _, t := range w.Triggers {
		if t == string(trigger) {
			return true
		}
	}
	return false
}

type Survey struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	EnvironmentID uuid.UUID       `db:"environment_id" json:"environment_id"`
	Name          string          `db:"name" json:"name"`
	Status        SurveyStatus    `db:"status" json:"status"`
	Questions     json.RawMessage `db:"questions" json:"questions"`
	TriggerNames  pq.StringArray  `db:"trigger_names" json:"trigger_names"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type Response struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	SurveyID  uuid.UUID       `db:"survey_id" json:"survey_id"`
	PersonID  uuid.NullUUID   `db:"person_id" json:"person_id"`
	Finished  bool            `db:"finished" json:"finished"`
	Data      json.RawMessage `db:"data" json:"data"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
