// Package databasefake is an in-memory implementation of database.Store
// to enable quick testing without PostgreSQL.
package databasefake

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
)

// New returns an in-memory fake of the database.
func New() database.Store {
	return &fakeQuerier{
		mutex: &sync.RWMutex{},
		data: &data{
			users:            make([]database.User, 0),
			apiKeys:          make([]database.APIKey, 0),
			teams:            make([]database.Team, 0),
			teamMemberships:  make([]database.TeamMembership, 0),
			products:         make([]database.Product, 0),
			environments:     make([]database.Environment, 0),
			actionClasses:    make([]database.ActionClass, 0),
			actions:          make([]database.Action, 0),
			attributeClasses: make([]database.AttributeClass, 0),
			attributes:       make([]database.Attribute, 0),
			people:           make([]database.Person, 0),
			webhooks:         make([]database.Webhook, 0),
			surveys:          make([]database.Survey, 0),
			responses:        make([]database.Response, 0),
		},
	}
}

type rwMutex interface {
	Lock()
	RLock()
	Unlock()
	RUnlock()
}

// fakeQuerier replicates database functionality to enable quick testing.
type fakeQuerier struct {
	mutex rwMutex
	*data
}

type data struct {
	users            []database.User
	apiKeys          []database.APIKey
	teams            []database.Team
	teamMemberships  []database.TeamMembership
	products         []database.Product
	environments     []database.Environment
	actionClasses    []database.ActionClass
	actions          []database.Action
	attributeClasses []database.AttributeClass
	attributes       []database.Attribute
	people           []database.Person
	webhooks         []database.Webhook
	surveys          []database.Survey
	responses        []database.Response
}

func (*fakeQuerier) Wrappers() []string {
	return []string{}
}

func (*fakeQuerier) Ping(_ context.Context) (time.Duration, error) {
	return 0, nil
}

// InTx doesn't rollback data properly for in-memory yet.
func (q *fakeQuerier) InTx(fn func(database.Store) error, _ *database.TxOptions) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return fn(&fakeQuerier{mutex: inTxMutex{}, data: q.data})
}

// inTxMutex is a no op, since inside a transaction we are already locked.
type inTxMutex struct{}

func (inTxMutex) Lock()    {}
func (inTxMutex) RLock()   {}
func (inTxMutex) Unlock()  {}
func (inTxMutex) RUnlock() {}

func uniqueViolation(constraint database.UniqueConstraint) error {
	return &pq.Error{
		Code:       "23505",
		Constraint: string(constraint),
	}
}

func (q *fakeQuerier) InsertUser(_ context.Context, arg database.InsertUserParams) (database.User, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, user := range q.users {
		if strings.EqualFold(user.Email, arg.Email) {
			return database.User{}, uniqueViolation(database.UniqueUsersEmailKey)
		}
	}
	user := database.User{
		ID:             arg.ID,
		Email:          arg.Email,
		Username:       arg.Username,
		HashedPassword: arg.HashedPassword,
		CreatedAt:      arg.CreatedAt,
		UpdatedAt:      arg.UpdatedAt,
	}
	q.users = append(q.users, user)
	return user, nil
}

func (q *fakeQuerier) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, user := range q.users {
		if user.ID == id {
			return user, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, user := range q.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetUserCount(_ context.Context) (int64, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return int64(len(q.users)), nil
}

func (q *fakeQuerier) InsertAPIKey(_ context.Context, arg database.InsertAPIKeyParams) (database.APIKey, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	key := database.APIKey{
		ID:           arg.ID,
		UserID:       arg.UserID,
		HashedSecret: arg.HashedSecret,
		LastUsed:     arg.LastUsed,
		ExpiresAt:    arg.ExpiresAt,
		CreatedAt:    arg.CreatedAt,
	}
	q.apiKeys = append(q.apiKeys, key)
	return key, nil
}

func (q *fakeQuerier) GetAPIKeyByID(_ context.Context, id string) (database.APIKey, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, key := range q.apiKeys {
		if key.ID == id {
			return key, nil
		}
	}
	return database.APIKey{}, sql.ErrNoRows
}

func (q *fakeQuerier) UpdateAPIKeyLastUsed(_ context.Context, arg database.UpdateAPIKeyLastUsedParams) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, key := range q.apiKeys {
		if key.ID != arg.ID {
			continue
		}
		key.LastUsed = arg.LastUsed
		q.apiKeys[i] = key
		return nil
	}
	return sql.ErrNoRows
}

func (q *fakeQuerier) DeleteAPIKeyByID(_ context.Context, id string) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, key := range q.apiKeys {
		if key.ID == id {
			q.apiKeys = append(q.apiKeys[:i], q.apiKeys[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (q *fakeQuerier) InsertTeam(_ context.Context, arg database.InsertTeamParams) (database.Team, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	team := database.Team{
		ID:        arg.ID,
		Name:      arg.Name,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}
	q.teams = append(q.teams, team)
	return team, nil
}

func (q *fakeQuerier) GetTeamByID(_ context.Context, id uuid.UUID) (database.Team, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, team := range q.teams {
		if team.ID == id {
			return team, nil
		}
	}
	return database.Team{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetTeamsByUserID(_ context.Context, userID uuid.UUID) ([]database.Team, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	teams := []database.Team{}
	for _, membership := range q.teamMemberships {
		if membership.UserID != userID {
			continue
		}
		for _, team := range q.teams {
			if team.ID == membership.TeamID {
				teams = append(teams, team)
			}
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
	return teams, nil
}

func (q *fakeQuerier) InsertTeamMembership(_ context.Context, arg database.InsertTeamMembershipParams) (database.TeamMembership, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, membership := range q.teamMemberships {
		if membership.TeamID == arg.TeamID && membership.UserID == arg.UserID {
			return database.TeamMembership{}, uniqueViolation(database.UniqueTeamMembershipsPkey)
		}
	}
	membership := database.TeamMembership{
		TeamID:    arg.TeamID,
		UserID:    arg.UserID,
		Role:      arg.Role,
		CreatedAt: arg.CreatedAt,
	}
	q.teamMemberships = append(q.teamMemberships, membership)
	return membership, nil
}

func (q *fakeQuerier) GetTeamMembership(_ context.Context, arg database.GetTeamMembershipParams) (database.TeamMembership, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, membership := range q.teamMemberships {
		if membership.TeamID == arg.TeamID && membership.UserID == arg.UserID {
			return membership, nil
		}
	}
	return database.TeamMembership{}, sql.ErrNoRows
}

func (q *fakeQuerier) InsertProduct(_ context.Context, arg database.InsertProductParams) (database.Product, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	product := database.Product{
		ID:        arg.ID,
		TeamID:    arg.TeamID,
		Name:      arg.Name,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}
	q.products = append(q.products, product)
	return product, nil
}

func (q *fakeQuerier) GetProductByID(_ context.Context, id uuid.UUID) (database.Product, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, product := range q.products {
		if product.ID == id {
			return product, nil
		}
	}
	return database.Product{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetProductsByTeamID(_ context.Context, teamID uuid.UUID) ([]database.Product, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	products := []database.Product{}
	for _, product := range q.products {
		if product.TeamID == teamID {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (q *fakeQuerier) InsertEnvironment(_ context.Context, arg database.InsertEnvironmentParams) (database.Environment, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	env := database.Environment{
		ID:        arg.ID,
		ProductID: arg.ProductID,
		Type:      arg.Type,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}
	q.environments = append(q.environments, env)
	return env, nil
}

func (q *fakeQuerier) GetEnvironmentByID(_ context.Context, id uuid.UUID) (database.Environment, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, env := range q.environments {
		if env.ID == id {
			return env, nil
		}
	}
	return database.Environment{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetEnvironmentsByProductID(_ context.Context, productID uuid.UUID) ([]database.Environment, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	envs := []database.Environment{}
	for _, env := range q.environments {
		if env.ProductID == productID {
			envs = append(envs, env)
		}
	}
	sort.Slice(envs, func(i, j int) bool {
		return envs[i].Type < envs[j].Type
	})
	return envs, nil
}

func (q *fakeQuerier) UpdateEnvironmentWidgetSetup(_ context.Context, arg database.UpdateEnvironmentWidgetSetupParams) (database.Environment, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, env := range q.environments {
		if env.ID != arg.ID {
			continue
		}
		env.WidgetSetupCompleted = arg.WidgetSetupCompleted
		env.UpdatedAt = arg.UpdatedAt
		q.environments[i] = env
		return env, nil
	}
	return database.Environment{}, sql.ErrNoRows
}

func (q *fakeQuerier) InsertActionClass(_ context.Context, arg database.InsertActionClassParams) (database.ActionClass, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, class := range q.actionClasses {
		if class.EnvironmentID == arg.EnvironmentID && class.Name == arg.Name {
			return database.ActionClass{}, uniqueViolation(database.UniqueActionClassesEnvironmentIDNameKey)
		}
	}
	class := database.ActionClass{
		ID:            arg.ID,
		EnvironmentID: arg.EnvironmentID,
		Name:          arg.Name,
		Description:   arg.Description,
		Type:          arg.Type,
		NoCodeConfig:  arg.NoCodeConfig,
		CreatedAt:     arg.CreatedAt,
		UpdatedAt:     arg.UpdatedAt,
	}
	q.actionClasses = append(q.actionClasses, class)
	return class, nil
}

func (q *fakeQuerier) GetActionClassByID(_ context.Context, id uuid.UUID) (database.ActionClass, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, class := range q.actionClasses {
		if class.ID == id {
			return class, nil
		}
	}
	return database.ActionClass{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetActionClassesByEnvironmentID(_ context.Context, environmentID uuid.UUID) ([]database.ActionClass, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	classes := []database.ActionClass{}
	for _, class := range q.actionClasses {
		if class.EnvironmentID == environmentID {
			classes = append(classes, class)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].CreatedAt.Before(classes[j].CreatedAt)
	})
	return classes, nil
}

func (q *fakeQuerier) GetActionClassByEnvironmentIDAndName(_ context.Context, arg database.GetActionClassByEnvironmentIDAndNameParams) (database.ActionClass, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, class := range q.actionClasses {
		if class.EnvironmentID == arg.EnvironmentID && class.Name == arg.Name {
			return class, nil
		}
	}
	return database.ActionClass{}, sql.ErrNoRows
}

func (q *fakeQuerier) UpdateActionClass(_ context.Context, arg database.UpdateActionClassParams) (database.ActionClass, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, class := range q.actionClasses {
		if class.ID != arg.ID {
			continue
		}
		class.Name = arg.Name
		class.Description = arg.Description
		class.NoCodeConfig = arg.NoCodeConfig
		class.UpdatedAt = arg.UpdatedAt
		q.actionClasses[i] = class
		return class, nil
	}
	return database.ActionClass{}, sql.ErrNoRows
}

func (q *fakeQuerier) DeleteActionClassByID(_ context.Context, id uuid.UUID) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, class := range q.actionClasses {
		if class.ID == id {
			q.actionClasses = append(q.actionClasses[:i], q.actionClasses[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (q *fakeQuerier) InsertAction(_ context.Context, arg database.InsertActionParams) (database.Action, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	action := database.Action{
		ID:            arg.ID,
		ActionClassID: arg.ActionClassID,
		PersonID:      arg.PersonID,
		CreatedAt:     arg.CreatedAt,
	}
	q.actions = append(q.actions, action)
	return action, nil
}

func (q *fakeQuerier) GetActionCountSince(_ context.Context, arg database.GetActionCountSinceParams) (int64, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	var count int64
	for _, action := range q.actions {
		if action.ActionClassID == arg.ActionClassID && !action.CreatedAt.Before(arg.Since) {
			count++
		}
	}
	return count, nil
}

func (q *fakeQuerier) InsertAttributeClass(_ context.Context, arg database.InsertAttributeClassParams) (database.AttributeClass, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, class := range q.attributeClasses {
		if class.EnvironmentID == arg.EnvironmentID && class.Name == arg.Name {
			return database.AttributeClass{}, uniqueViolation(database.UniqueAttributeClassesEnvironmentIDNameKey)
		}
	}
	class := database.AttributeClass{
		ID:            arg.ID,
		EnvironmentID: arg.EnvironmentID,
		Name:          arg.Name,
		Description:   arg.Description,
		Type:          arg.Type,
		CreatedAt:     arg.CreatedAt,
		UpdatedAt:     arg.UpdatedAt,
	}
	q.attributeClasses = append(q.attributeClasses, class)
	return class, nil
}

func (q *fakeQuerier) GetAttributeClassByID(_ context.Context, id uuid.UUID) (database.AttributeClass, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, class := range q.attributeClasses {
		if class.ID == id {
			return class, nil
		}
	}
	return database.AttributeClass{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetAttributeClassesByEnvironmentID(_ context.Context, environmentID uuid.UUID) ([]database.AttributeClass, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	classes := []database.AttributeClass{}
	for _, class := range q.attributeClasses {
		if class.EnvironmentID == environmentID {
			classes = append(classes, class)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].CreatedAt.Before(classes[j].CreatedAt)
	})
	return classes, nil
}

func (q *fakeQuerier) GetAttributeClassByEnvironmentIDAndName(_ context.Context, arg database.GetAttributeClassByEnvironmentIDAndNameParams) (database.AttributeClass, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, class := range q.attributeClasses {
		if class.EnvironmentID == arg.EnvironmentID && class.Name == arg.Name {
			return class, nil
		}
	}
	return database.AttributeClass{}, sql.ErrNoRows
}

func (q *fakeQuerier) UpdateAttributeClass(_ context.Context, arg database.UpdateAttributeClassParams) (database.AttributeClass, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, class := range q.attributeClasses {
		if class.ID != arg.ID {
			continue
		}
		class.Description = arg.Description
		class.Archived = arg.Archived
		class.UpdatedAt = arg.UpdatedAt
		q.attributeClasses[i] = class
		return class, nil
	}
	return database.AttributeClass{}, sql.ErrNoRows
}

func (q *fakeQuerier) UpsertAttribute(_ context.Context, arg database.UpsertAttributeParams) (database.Attribute, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, attribute := range q.attributes {
		if attribute.AttributeClassID != arg.AttributeClassID || attribute.PersonID != arg.PersonID {
			continue
		}
		attribute.Value = arg.Value
		attribute.UpdatedAt = arg.UpdatedAt
		q.attributes[i] = attribute
		return attribute, nil
	}
	attribute := database.Attribute{
		ID:               arg.ID,
		AttributeClassID: arg.AttributeClassID,
		PersonID:         arg.PersonID,
		Value:            arg.Value,
		CreatedAt:        arg.CreatedAt,
		UpdatedAt:        arg.UpdatedAt,
	}
	q.attributes = append(q.attributes, attribute)
	return attribute, nil
}

func (q *fakeQuerier) GetAttributesByPersonID(_ context.Context, personID uuid.UUID) ([]database.Attribute, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	attributes := []database.Attribute{}
	for _, attribute := range q.attributes {
		if attribute.PersonID == personID {
			attributes = append(attributes, attribute)
		}
	}
	sort.Slice(attributes, func(i, j int) bool {
		return attributes[i].CreatedAt.Before(attributes[j].CreatedAt)
	})
	return attributes, nil
}

func (q *fakeQuerier) InsertPerson(_ context.Context, arg database.InsertPersonParams) (database.Person, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	person := database.Person{
		ID:            arg.ID,
		EnvironmentID: arg.EnvironmentID,
		CreatedAt:     arg.CreatedAt,
		UpdatedAt:     arg.UpdatedAt,
	}
	q.people = append(q.people, person)
	return person, nil
}

func (q *fakeQuerier) GetPersonByID(_ context.Context, id uuid.UUID) (database.Person, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, person := range q.people {
		if person.ID == id {
			return person, nil
		}
	}
	return database.Person{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetPeopleByEnvironmentID(_ context.Context, arg database.GetPeopleByEnvironmentIDParams) ([]database.Person, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	people := []database.Person{}
	for _, person := range q.people {
		if person.EnvironmentID == arg.EnvironmentID {
			people = append(people, person)
		}
	}
	sort.Slice(people, func(i, j int) bool {
		return people[i].CreatedAt.After(people[j].CreatedAt)
	})
	if arg.Offset > 0 {
		if int(arg.Offset) > len(people) {
			return []database.Person{}, nil
		}
		people = people[arg.Offset:]
	}
	if arg.Limit > 0 && int(arg.Limit) < len(people) {
		people = people[:arg.Limit]
	}
	return people, nil
}

func (q *fakeQuerier) DeletePersonByID(_ context.Context, id uuid.UUID) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, person := range q.people {
		if person.ID == id {
			q.people = append(q.people[:i], q.people[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (q *fakeQuerier) InsertWebhook(_ context.Context, arg database.InsertWebhookParams) (database.Webhook, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	webhook := database.Webhook{
		ID:            arg.ID,
		EnvironmentID: arg.EnvironmentID,
		URL:           arg.URL,
		Secret:        arg.Secret,
		Triggers:      append([]string{}, arg.Triggers...),
		CreatedAt:     arg.CreatedAt,
		UpdatedAt:     arg.UpdatedAt,
	}
	q.webhooks = append(q.webhooks, webhook)
	return webhook, nil
}

func (q *fakeQuerier) GetWebhookByID(_ context.Context, id uuid.UUID) (database.Webhook, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, webhook := range q.webhooks {
		if webhook.ID == id {
			return webhook, nil
		}
	}
	return database.Webhook{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetWebhooksByEnvironmentID(_ context.Context, environmentID uuid.UUID) ([]database.Webhook, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	webhooks := []database.Webhook{}
	for _, webhook := range q.webhooks {
		if webhook.EnvironmentID == environmentID {
			webhooks = append(webhooks, webhook)
		}
	}
	sort.Slice(webhooks, func(i, j int) bool {
		return webhooks[i].CreatedAt.Before(webhooks[j].CreatedAt)
	})
	return webhooks, nil
}

func (q *fakeQuerier) UpdateWebhook(_ context.Context, arg database.UpdateWebhookParams) (database.Webhook, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, webhook := range q.webhooks {
		if webhook.ID != arg.ID {
			continue
		}
		webhook.URL = arg.URL
		webhook.Triggers = append([]string{}, arg.Triggers...)
		webhook.UpdatedAt = arg.UpdatedAt
		q.webhooks[i] = webhook
		return webhook, nil
	}
	return database.Webhook{}, sql.ErrNoRows
}

func (q *fakeQuerier) DeleteWebhookByID(_ context.Context, id uuid.UUID) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, webhook := range q.webhooks {
		if webhook.ID == id {
			q.webhooks = append(q.webhooks[:i], q.webhooks[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (q *fakeQuerier) InsertSurvey(_ context.Context, arg database.InsertSurveyParams) (database.Survey, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	survey := database.Survey{
		ID:            arg.ID,
		EnvironmentID: arg.EnvironmentID,
		Name:          arg.Name,
		Status:        arg.Status,
		Questions:     arg.Questions,
		TriggerNames:  append([]string{}, arg.TriggerNames...),
		CreatedAt:     arg.CreatedAt,
		UpdatedAt:     arg.UpdatedAt,
	}
	q.surveys = append(q.surveys, survey)
	return survey, nil
}

func (q *fakeQuerier) GetSurveyByID(_ context.Context, id uuid.UUID) (database.Survey, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, survey := range q.surveys {
		if survey.ID == id {
			return survey, nil
		}
	}
	return database.Survey{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetSurveysByEnvironmentID(_ context.Context, environmentID uuid.UUID) ([]database.Survey, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	surveys := []database.Survey{}
	for _, survey := range q.surveys {
		if survey.EnvironmentID == environmentID {
			surveys = append(surveys, survey)
		}
	}
	sort.Slice(surveys, func(i, j int) bool {
		return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
	})
	return surveys, nil
}

func (q *fakeQuerier) UpdateSurvey(_ context.Context, arg database.UpdateSurveyParams) (database.Survey, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, survey := range q.surveys {
		if survey.ID != arg.ID {
			continue
		}
		survey.Name = arg.Name
		survey.Status = arg.Status
		survey.Questions = arg.Questions
		survey.TriggerNames = append([]string{}, arg.TriggerNames...)
		survey.UpdatedAt = arg.UpdatedAt
		q.surveys[i] = survey
		return survey, nil
	}
	return database.Survey{}, sql.ErrNoRows
}

func (q *fakeQuerier) DeleteSurveyByID(_ context.Context, id uuid.UUID) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, survey := range q.surveys {
		if survey.ID == id {
			q.surveys = append(q.surveys[:i], q.surveys[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (q *fakeQuerier) InsertResponse(_ context.Context, arg database.InsertResponseParams) (database.Response, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	response := database.Response{
		ID:        arg.ID,
		SurveyID:  arg.SurveyID,
		PersonID:  arg.PersonID,
		Finished:  arg.Finished,
		Data:      arg.Data,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}
	q.responses = append(q.responses, response)
	return response, nil
}

func (q *fakeQuerier) GetResponseByID(_ context.Context, id uuid.UUID) (database.Response, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	for _, response := range q.responses {
		if response.ID == id {
			return response, nil
		}
	}
	return database.Response{}, sql.ErrNoRows
}

func (q *fakeQuerier) GetResponsesBySurveyID(_ context.Context, arg database.GetResponsesBySurveyIDParams) ([]database.Response, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	responses := []database.Response{}
	for _, response := range q.responses {
		if response.SurveyID == arg.SurveyID {
			responses = append(responses, response)
		}
	}
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].CreatedAt.After(responses[j].CreatedAt)
	})
	if arg.Offset > 0 {
		if int(arg.Offset) > len(responses) {
			return []database.Response{}, nil
		}
		responses = responses[arg.Offset:]
	}
	if arg.Limit > 0 && int(arg.Limit) < len(responses) {
		responses = responses[:arg.Limit]
	}
	return responses, nil
}

func (q *fakeQuerier) GetResponseCountBySurveyID(_ context.Context, surveyID uuid.UUID) (int64, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	var count int64
	for _, response := range q.responses {
		if response.SurveyID == surveyID {
			count++
		}
	}
	return count, nil
}

func (q *fakeQuerier) UpdateResponse(_ context.Context, arg database.UpdateResponseParams) (database.Response, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for i, response := range q.responses {
		if response.ID != arg.ID {
			continue
		}
		response.Finished = arg.Finished
		response.Data = arg.Data
		response.UpdatedAt = arg.UpdatedAt
		q.responses[i] = response
		return response, nil
	}
	return database.Response{}, sql.ErrNoRows
}
