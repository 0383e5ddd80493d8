// Package dbcache wraps a database.Store with a tag-keyed, TTL-bounded
// read cache.
//
// Every cached entry is indexed under one or more tags. A tag names either
// a single entity ("webhooks/<id>") or an environment-scoped collection
// ("environments/<id>/webhooks"). Writes through the wrapper invalidate the
// affected tags, evicting every entry indexed under them, and broadcast the
// invalidation over pubsub so other replicas evict too. Entries that are
// never invalidated expire after the TTL.
//
// Misses and errors are never cached. The wrapper is transparent: results
// and error semantics are identical to the inner store.
package dbcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ammario/tlru"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"

	"cdr.dev/slog"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
)

const (
	wrapname = "dbcache.Querier"

	// InvalidateChannel is the pubsub channel invalidations are broadcast on.
	InvalidateChannel = "cache-invalidate"

	// DefaultTTL bounds how long an entry may be served without
	// revalidation against the database.
	DefaultTTL = 30 * time.Minute

	// DefaultCountTTL bounds action count entries, which go stale on every
	// tracked action and are cheap to recompute.
	DefaultCountTTL = 30 * time.Second

	// defaultMaxEntries caps the number of live cache entries.
	defaultMaxEntries = 8192
)

// Options tune the cache. The zero value uses defaults.
type Options struct {
	TTL        time.Duration
	CountTTL   time.Duration
	MaxEntries int
	// Registerer receives hit/miss/invalidation counters. If nil, a
	// throwaway registry is used.
	Registerer prometheus.Registerer
}

// Querier is a database.Store decorated with the tag cache.
type Querier struct {
	database.Store

	log      slog.Logger
	pubsub   database.Pubsub
	ttl      time.Duration
	countTTL time.Duration

	cancelSubscribe func()

	mu     sync.Mutex
	values *tlru.Cache[string, any]
	// gen counts invalidations. A fill started before an invalidation and
	// completed after it may hold a pre-write value, so fetch discards it.
	gen        uint64
	maxEntries int
	// tags indexes live cache keys by tag, keys records the reverse
	// mapping so eviction can clean the index.
	tags map[string]map[string]struct{}
	keys map[string][]string

	hits          prometheus.Counter
	misses        prometheus.Counter
	invalidations prometheus.Counter
}

// New wraps inner with the tag cache. The returned Querier must be closed
// to release its pubsub subscription.
func New(inner database.Store, pubsub database.Pubsub, log slog.Logger, opts *Options) (*Querier, error) {
	if opts == nil {
		opts = &Options{}
	}
	for _, wrapper := range inner.Wrappers() {
		if wrapper == wrapname {
			return nil, xerrors.Errorf("store already wrapped with %q", wrapname)
		}
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	countTTL := opts.CountTTL
	if countTTL <= 0 {
		countTTL = DefaultCountTTL
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	q := &Querier{
		Store:      inner,
		log:        log,
		pubsub:     pubsub,
		ttl:        ttl,
		countTTL:   countTTL,
		maxEntries: maxEntries,
		values:     tlru.New[string](tlru.ConstantCost[any], maxEntries),
		tags:       make(map[string]map[string]struct{}),
		keys:       make(map[string][]string),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "formbricks", Subsystem: "dbcache", Name: "hits_total",
			Help: "Cached store reads served without hitting the database.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "formbricks", Subsystem: "dbcache", Name: "misses_total",
			Help: "Cached store reads that fell through to the database.",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "formbricks", Subsystem: "dbcache", Name: "invalidations_total",
			Help: "Tag invalidations processed, local and remote.",
		}),
	}
	for _, c := range []prometheus.Collector{q.hits, q.misses, q.invalidations} {
		err := registerer.Register(c)
		if err != nil {
			return nil, xerrors.Errorf("register collector: %w", err)
		}
	}

	cancel, err := pubsub.Subscribe(InvalidateChannel, q.listenInvalidate)
	if err != nil {
		return nil, xerrors.Errorf("subscribe %q: %w", InvalidateChannel, err)
	}
	q.cancelSubscribe = cancel
	return q, nil
}

func (q *Querier) Wrappers() []string {
	return append(q.Store.Wrappers(), wrapname)
}

// Close releases the pubsub subscription. Cached entries are left to
// expire.
func (q *Querier) Close() error {
	q.cancelSubscribe()
	return nil
}

type invalidation struct {
	Tags []string `json:"tags"`
}

// Invalidate evicts every entry indexed under the given tags on all
// replicas. Exposed for callers that mutate entities inside InTx, where
// the per-query invalidation hooks don't apply.
func (q *Querier) Invalidate(tags ...string) {
	if len(tags) == 0 {
		return
	}
	q.evict(tags)

	message, err := json.Marshal(invalidation{Tags: tags})
	if err != nil {
		q.log.Warn(context.Background(), "marshal invalidation", slog.Error(err))
		return
	}
	err = q.pubsub.Publish(InvalidateChannel, message)
	if err != nil {
		// Other replicas serve stale entries until their TTL expires.
		q.log.Warn(context.Background(), "publish invalidation", slog.Error(err))
	}
}

func (q *Querier) listenInvalidate(ctx context.Context, message []byte) {
	var inv invalidation
	err := json.Unmarshal(message, &inv)
	if err != nil {
		q.log.Warn(ctx, "unmarshal invalidation", slog.Error(err))
		return
	}
	q.evict(inv.Tags)
}

func (q *Querier) evict(tags []string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	for _, tag := range tags {
		keys, ok := q.tags[tag]
		if !ok {
			continue
		}
		delete(q.tags, tag)
		for key := range keys {
			q.values.Delete(key)
			q.forgetLocked(key)
		}
	}
	q.invalidations.Add(float64(len(tags)))
}

// forgetLocked removes key from the tag index. q.mu must be held.
func (q *Querier) forgetLocked(key string) {
	for _, tag := range q.keys[key] {
		if keys, ok := q.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(q.tags, tag)
			}
		}
	}
	delete(q.keys, key)
}

// fetch returns the cached value for key, or runs fn and caches its result
// under the tags derived from it.
func fetch[T any](ctx context.Context, q *Querier, key string, ttl time.Duration, fn func(context.Context) (T, error), tagsFn func(T) []string) (T, error) {
	q.mu.Lock()
	value, _, ok := q.values.Get(key)
	start := q.gen
	q.mu.Unlock()
	if ok {
		q.hits.Inc()
		//nolint:forcetypeassert // only fetch writes this key.
		return value.(T), nil
	}
	q.misses.Inc()

	fetched, err := fn(ctx)
	if err != nil {
		return fetched, err
	}

	tags := tagsFn(fetched)
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.gen != start {
		// An invalidation landed while the read was in flight, so the
		// value may predate a committed write. Serve it, don't cache it.
		return fetched, nil
	}
	q.values.Set(key, fetched, ttl)
	q.forgetLocked(key)
	for _, tag := range tags {
		keys, ok := q.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			q.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	q.keys[key] = tags
	if len(q.keys) > q.maxEntries {
		q.sweepLocked()
	}
	return fetched, nil
}

// sweepLocked drops index entries whose keys expired or were capacity-evicted
// from values without an invalidation. q.mu must be held.
func (q *Querier) sweepLocked() {
	for key := range q.keys {
		if _, _, ok := q.values.Get(key); !ok {
			q.forgetLocked(key)
		}
	}
}

// Tag constructors. These are exported so InTx callers can invalidate the
// scopes they touched.

func EnvironmentTag(id uuid.UUID) string {
	return "environments/" + id.String()
}

func ScopeTag(environmentID uuid.UUID, kind string) string {
	return "environments/" + environmentID.String() + "/" + kind
}

func ActionClassTag(id uuid.UUID) string      { return "actionclasses/" + id.String() }
func ActionCountTag(id uuid.UUID) string      { return "actionclasses/" + id.String() + "/count" }
func AttributeClassTag(id uuid.UUID) string   { return "attributeclasses/" + id.String() }
func PersonTag(id uuid.UUID) string           { return "people/" + id.String() }
func PersonAttributesTag(id uuid.UUID) string { return "people/" + id.String() + "/attributes" }
func WebhookTag(id uuid.UUID) string          { return "webhooks/" + id.String() }
func SurveyTag(id uuid.UUID) string           { return "surveys/" + id.String() }

func environmentsOfProductTag(productID uuid.UUID) string {
	return "products/" + productID.String() + "/environments"
}

// Environments

func (q *Querier) GetEnvironmentByID(ctx context.Context, id uuid.UUID) (database.Environment, error) {
	key := "GetEnvironmentByID:" + id.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.Environment, error) {
		return q.Store.GetEnvironmentByID(ctx, id)
	}, func(env database.Environment) []string {
		return []string{EnvironmentTag(env.ID), environmentsOfProductTag(env.ProductID)}
	})
}

func (q *Querier) GetEnvironmentsByProductID(ctx context.Context, productID uuid.UUID) ([]database.Environment, error) {
	key := "GetEnvironmentsByProductID:" + productID.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.Environment, error) {
		return q.Store.GetEnvironmentsByProductID(ctx, productID)
	}, func([]database.Environment) []string {
		return []string{environmentsOfProductTag(productID)}
	})
}

func (q *Querier) InsertEnvironment(ctx context.Context, arg database.InsertEnvironmentParams) (database.Environment, error) {
	env, err := q.Store.InsertEnvironment(ctx, arg)
	if err != nil {
		return env, err
	}
	q.Invalidate(environmentsOfProductTag(env.ProductID))
	return env, nil
}

func (q *Querier) UpdateEnvironmentWidgetSetup(ctx context.Context, arg database.UpdateEnvironmentWidgetSetupParams) (database.Environment, error) {
	env, err := q.Store.UpdateEnvironmentWidgetSetup(ctx, arg)
	if err != nil {
		return env, err
	}
	q.Invalidate(EnvironmentTag(env.ID), environmentsOfProductTag(env.ProductID))
	return env, nil
}

// Action classes

func (q *Querier) GetActionClassByID(ctx context.Context, id uuid.UUID) (database.ActionClass, error) {
	key := "GetActionClassByID:" + id.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.ActionClass, error) {
		return q.Store.GetActionClassByID(ctx, id)
	}, actionClassTags)
}

func (q *Querier) GetActionClassesByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]database.ActionClass, error) {
	key := "GetActionClassesByEnvironmentID:" + environmentID.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.ActionClass, error) {
		return q.Store.GetActionClassesByEnvironmentID(ctx, environmentID)
	}, func([]database.ActionClass) []string {
		return []string{ScopeTag(environmentID, "actionclasses")}
	})
}

func (q *Querier) GetActionClassByEnvironmentIDAndName(ctx context.Context, arg database.GetActionClassByEnvironmentIDAndNameParams) (database.ActionClass, error) {
	key := "GetActionClassByEnvironmentIDAndName:" + arg.EnvironmentID.String() + ":" + arg.Name
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.ActionClass, error) {
		return q.Store.GetActionClassByEnvironmentIDAndName(ctx, arg)
	}, actionClassTags)
}

func actionClassTags(class database.ActionClass) []string {
	return []string{ActionClassTag(class.ID), ScopeTag(class.EnvironmentID, "actionclasses")}
}

func (q *Querier) InsertActionClass(ctx context.Context, arg database.InsertActionClassParams) (database.ActionClass, error) {
	class, err := q.Store.InsertActionClass(ctx, arg)
	if err != nil {
		return class, err
	}
	q.Invalidate(ScopeTag(class.EnvironmentID, "actionclasses"))
	return class, nil
}

func (q *Querier) UpdateActionClass(ctx context.Context, arg database.UpdateActionClassParams) (database.ActionClass, error) {
	class, err := q.Store.UpdateActionClass(ctx, arg)
	if err != nil {
		return class, err
	}
	q.Invalidate(actionClassTags(class)...)
	return class, nil
}

func (q *Querier) DeleteActionClassByID(ctx context.Context, id uuid.UUID) error {
	// The environment scope tag can only be derived from the row itself.
	tags := []string{ActionClassTag(id), ActionCountTag(id)}
	class, err := q.Store.GetActionClassByID(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		tags = append(tags, ScopeTag(class.EnvironmentID, "actionclasses"))
	}
	err = q.Store.DeleteActionClassByID(ctx, id)
	if err != nil {
		return err
	}
	q.Invalidate(tags...)
	return nil
}

// Actions

func (q *Querier) InsertAction(ctx context.Context, arg database.InsertActionParams) (database.Action, error) {
	action, err := q.Store.InsertAction(ctx, arg)
	if err != nil {
		return action, err
	}
	q.Invalidate(ActionCountTag(action.ActionClassID))
	return action, nil
}

func (q *Querier) GetActionCountSince(ctx context.Context, arg database.GetActionCountSinceParams) (int64, error) {
	// Callers bucket the cutoff (see api.actionClassCount), otherwise
	// every request produces a unique key.
	key := fmt.Sprintf("GetActionCountSince:%s:%d", arg.ActionClassID, arg.Since.Unix())
	return fetch(ctx, q, key, q.countTTL, func(ctx context.Context) (int64, error) {
		return q.Store.GetActionCountSince(ctx, arg)
	}, func(int64) []string {
		return []string{ActionCountTag(arg.ActionClassID)}
	})
}

// Attribute classes and attributes

func (q *Querier) GetAttributeClassByID(ctx context.Context, id uuid.UUID) (database.AttributeClass, error) {
	key := "GetAttributeClassByID:" + id.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.AttributeClass, error) {
		return q.Store.GetAttributeClassByID(ctx, id)
	}, attributeClassTags)
}

func (q *Querier) GetAttributeClassesByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]database.AttributeClass, error) {
	key := "GetAttributeClassesByEnvironmentID:" + environmentID.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.AttributeClass, error) {
		return q.Store.GetAttributeClassesByEnvironmentID(ctx, environmentID)
	}, func([]database.AttributeClass) []string {
		return []string{ScopeTag(environmentID, "attributeclasses")}
	})
}

func (q *Querier) GetAttributeClassByEnvironmentIDAndName(ctx context.Context, arg database.GetAttributeClassByEnvironmentIDAndNameParams) (database.AttributeClass, error) {
	key := "GetAttributeClassByEnvironmentIDAndName:" + arg.EnvironmentID.String() + ":" + arg.Name
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.AttributeClass, error) {
		return q.Store.GetAttributeClassByEnvironmentIDAndName(ctx, arg)
	}, attributeClassTags)
}

func attributeClassTags(class database.AttributeClass) []string {
	return []string{AttributeClassTag(class.ID), ScopeTag(class.EnvironmentID, "attributeclasses")}
}

func (q *Querier) InsertAttributeClass(ctx context.Context, arg database.InsertAttributeClassParams) (database.AttributeClass, error) {
	class, err := q.Store.InsertAttributeClass(ctx, arg)
	if err != nil {
		return class, err
	}
	q.Invalidate(ScopeTag(class.EnvironmentID, "attributeclasses"))
	return class, nil
}

func (q *Querier) UpdateAttributeClass(ctx context.Context, arg database.UpdateAttributeClassParams) (database.AttributeClass, error) {
	class, err := q.Store.UpdateAttributeClass(ctx, arg)
	if err != nil {
		return class, err
	}
	q.Invalidate(attributeClassTags(class)...)
	return class, nil
}

func (q *Querier) UpsertAttribute(ctx context.Context, arg database.UpsertAttributeParams) (database.Attribute, error) {
	attribute, err := q.Store.UpsertAttribute(ctx, arg)
	if err != nil {
		return attribute, err
	}
	q.Invalidate(PersonAttributesTag(attribute.PersonID))
	return attribute, nil
}

func (q *Querier) GetAttributesByPersonID(ctx context.Context, personID uuid.UUID) ([]database.Attribute, error) {
	key := "GetAttributesByPersonID:" + personID.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.Attribute, error) {
		return q.Store.GetAttributesByPersonID(ctx, personID)
	}, func([]database.Attribute) []string {
		return []string{PersonAttributesTag(personID), PersonTag(personID)}
	})
}

// People

func (q *Querier) GetPersonByID(ctx context.Context, id uuid.UUID) (database.Person, error) {
	key := "GetPersonByID:" + id.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.Person, error) {
		return q.Store.GetPersonByID(ctx, id)
	}, func(person database.Person) []string {
		return []string{PersonTag(person.ID), ScopeTag(person.EnvironmentID, "people")}
	})
}

func (q *Querier) GetPeopleByEnvironmentID(ctx context.Context, arg database.GetPeopleByEnvironmentIDParams) ([]database.Person, error) {
	key := fmt.Sprintf("GetPeopleByEnvironmentID:%s:%d:%d", arg.EnvironmentID, arg.Limit, arg.Offset)
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.Person, error) {
		return q.Store.GetPeopleByEnvironmentID(ctx, arg)
	}, func([]database.Person) []string {
		return []string{ScopeTag(arg.EnvironmentID, "people")}
	})
}

func (q *Querier) InsertPerson(ctx context.Context, arg database.InsertPersonParams) (database.Person, error) {
	person, err := q.Store.InsertPerson(ctx, arg)
	if err != nil {
		return person, err
	}
	q.Invalidate(ScopeTag(person.EnvironmentID, "people"))
	return person, nil
}

func (q *Querier) DeletePersonByID(ctx context.Context, id uuid.UUID) error {
	person, err := q.Store.GetPersonByID(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	err = q.Store.DeletePersonByID(ctx, id)
	if err != nil {
		return err
	}
	q.Invalidate(PersonTag(id), PersonAttributesTag(id), ScopeTag(person.EnvironmentID, "people"))
	return nil
}

// Webhooks

func (q *Querier) GetWebhookByID(ctx context.Context, id uuid.UUID) (database.Webhook, error) {
	key := "GetWebhookByID:" + id.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.Webhook, error) {
		return q.Store.GetWebhookByID(ctx, id)
	}, webhookTags)
}

func (q *Querier) GetWebhooksByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]database.Webhook, error) {
	key := "GetWebhooksByEnvironmentID:" + environmentID.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.Webhook, error) {
		return q.Store.GetWebhooksByEnvironmentID(ctx, environmentID)
	}, func([]database.Webhook) []string {
		return []string{ScopeTag(environmentID, "webhooks")}
	})
}

func webhookTags(webhook database.Webhook) []string {
	return []string{WebhookTag(webhook.ID), ScopeTag(webhook.EnvironmentID, "webhooks")}
}

func (q *Querier) InsertWebhook(ctx context.Context, arg database.InsertWebhookParams) (database.Webhook, error) {
	webhook, err := q.Store.InsertWebhook(ctx, arg)
	if err != nil {
		return webhook, err
	}
	q.Invalidate(ScopeTag(webhook.EnvironmentID, "webhooks"))
	return webhook, nil
}

func (q *Querier) UpdateWebhook(ctx context.Context, arg database.UpdateWebhookParams) (database.Webhook, error) {
	webhook, err := q.Store.UpdateWebhook(ctx, arg)
	if err != nil {
		return webhook, err
	}
	q.Invalidate(webhookTags(webhook)...)
	return webhook, nil
}

func (q *Querier) DeleteWebhookByID(ctx context.Context, id uuid.UUID) error {
	tags := []string{WebhookTag(id)}
	webhook, err := q.Store.GetWebhookByID(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		tags = append(tags, ScopeTag(webhook.EnvironmentID, "webhooks"))
	}
	err = q.Store.DeleteWebhookByID(ctx, id)
	if err != nil {
		return err
	}
	q.Invalidate(tags...)
	return nil
}

// Surveys

func (q *Querier) GetSurveyByID(ctx context.Context, id uuid.UUID) (database.Survey, error) {
	key := "GetSurveyByID:" + id.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) (database.Survey, error) {
		return q.Store.GetSurveyByID(ctx, id)
	}, surveyTags)
}

func (q *Querier) GetSurveysByEnvironmentID(ctx context.Context, environmentID uuid.UUID) ([]database.Survey, error) {
	key := "GetSurveysByEnvironmentID:" + environmentID.String()
	return fetch(ctx, q, key, q.ttl, func(ctx context.Context) ([]database.Survey, error) {
		return q.Store.GetSurveysByEnvironmentID(ctx, environmentID)
	}, func([]database.Survey) []string {
		return []string{ScopeTag(environmentID, "surveys")}
	})
}

func surveyTags(survey database.Survey) []string {
	return []string{SurveyTag(survey.ID), ScopeTag(survey.EnvironmentID, "surveys")}
}

func (q *Querier) InsertSurvey(ctx context.Context, arg database.InsertSurveyParams) (database.Survey, error) {
	survey, err := q.Store.InsertSurvey(ctx, arg)
	if err != nil {
		return survey, err
	}
	q.Invalidate(ScopeTag(survey.EnvironmentID, "surveys"))
	return survey, nil
}

func (q *Querier) UpdateSurvey(ctx context.Context, arg database.UpdateSurveyParams) (database.Survey, error) {
	survey, err := q.Store.UpdateSurvey(ctx, arg)
	if err != nil {
		return survey, err
	}
	q.Invalidate(surveyTags(survey)...)
	return survey, nil
}

func (q *Querier) DeleteSurveyByID(ctx context.Context, id uuid.UUID) error {
	tags := []string{SurveyTag(id)}
	survey, err := q.Store.GetSurveyByID(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		tags = append(tags, ScopeTag(survey.EnvironmentID, "surveys"))
	}
	err = q.Store.DeleteSurveyByID(ctx, id)
	if err != nil {
		return err
	}
	q.Invalidate(tags...)
	return nil
}
