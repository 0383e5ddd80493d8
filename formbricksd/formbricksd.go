// Package formbricksd is the HTTP API for the Formbricks server.
package formbricksd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cdr.dev/slog"

	"github.com/vikaspatil0021/formbricks/buildinfo"
	"github.com/vikaspatil0021/formbricks/formbricksd/authz"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/dispatch"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

// Options configures the API and its dependencies.
type Options struct {
	Logger   slog.Logger
	Database database.Store
	Pubsub   database.Pubsub

	// Dispatcher delivers webhook events. Optional; when nil no webhooks
	// fire.
	Dispatcher *dispatch.Dispatcher

	// PrometheusRegistry serves /metrics. Defaults to a new registry.
	PrometheusRegistry *prometheus.Registry

	// APIRateLimit bounds authenticated management requests per minute
	// per IP. Defaults to 512.
	APIRateLimit int
	// ClientRateLimit bounds public widget requests per minute per IP.
	// Defaults to 1024.
	ClientRateLimit int
}

// New constructs the API and its router.
func New(options *Options) *API {
	if options == nil {
		options = &Options{}
	}
	if options.PrometheusRegistry == nil {
		options.PrometheusRegistry = prometheus.NewRegistry()
	}
	if options.APIRateLimit == 0 {
		options.APIRateLimit = 512
	}
	if options.ClientRateLimit == 0 {
		options.ClientRateLimit = 1024
	}

	r := chi.NewRouter()
	api := &API{
		Options: options,
		Handler: r,
	}

	apiKeyMiddleware := httpmw.ExtractAPIKey(options.Database)

	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(options.PrometheusRegistry, promhttp.HandlerOpts{}))

	r.Route("/api/v2", func(r chi.Router) {
		r.Use(httprate.LimitByIP(options.APIRateLimit, time.Minute))
		r.NotFound(func(rw http.ResponseWriter, _ *http.Request) {
			httpapi.Write(rw, http.StatusNotFound, httpapi.Response{
				Message: "route not found",
			})
		})
		r.Get("/", func(rw http.ResponseWriter, _ *http.Request) {
			httpapi.Write(rw, http.StatusOK, httpapi.Response{
				Message: "👋",
			})
		})
		r.Get("/buildinfo", func(rw http.ResponseWriter, _ *http.Request) {
			httpapi.Write(rw, http.StatusOK, formbrickssdk.BuildInfoResponse{
				ExternalURL: buildinfo.ExternalURL(),
				Version:     buildinfo.Version(),
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/first", api.postFirstUser)
			// Brute-force logins get a much tighter limit.
			r.With(httprate.LimitByIP(10, time.Minute)).
				Post("/login", api.postLogin)
			r.Group(func(r chi.Router) {
				r.Use(apiKeyMiddleware)
				r.Get("/me", api.userMe)
				r.Post("/logout", api.postLogout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)

			r.Route("/environments/{environment}", func(r chi.Router) {
				r.Use(
					httpmw.ExtractEnvironmentParam(options.Database),
					api.requireEnvironmentAccess,
				)
				r.Get("/", api.environment)
				r.Patch("/", api.patchEnvironment)
				r.Route("/actionclasses", func(r chi.Router) {
					r.Get("/", api.actionClassesByEnvironment)
					r.Post("/", api.postActionClass)
				})
				r.Get("/attributeclasses", api.attributeClassesByEnvironment)
				r.Get("/people", api.peopleByEnvironment)
				r.Route("/webhooks", func(r chi.Router) {
					r.Get("/", api.webhooksByEnvironment)
					r.Post("/", api.postWebhook)
				})
				r.Route("/surveys", func(r chi.Router) {
					r.Get("/", api.surveysByEnvironment)
					r.Post("/", api.postSurvey)
				})
			})

			r.Route("/actionclasses/{actionclass}", func(r chi.Router) {
				r.Use(httpmw.ExtractActionClassParam(options.Database))
				r.Get("/", api.actionClass)
				r.Patch("/", api.patchActionClass)
				r.Delete("/", api.deleteActionClass)
				r.Get("/count", api.actionClassCount)
			})
			r.Route("/attributeclasses/{attributeclass}", func(r chi.Router) {
				r.Use(httpmw.ExtractAttributeClassParam(options.Database))
				r.Get("/", api.attributeClass)
				r.Patch("/", api.patchAttributeClass)
			})
			r.Route("/people/{person}", func(r chi.Router) {
				r.Use(httpmw.ExtractPersonParam(options.Database))
				r.Get("/", api.person)
				r.Delete("/", api.deletePerson)
			})
			r.Route("/webhooks/{webhook}", func(r chi.Router) {
				r.Use(httpmw.ExtractWebhookParam(options.Database))
				r.Get("/", api.webhook)
				r.Patch("/", api.patchWebhook)
				r.Delete("/", api.deleteWebhook)
			})
			r.Route("/surveys/{survey}", func(r chi.Router) {
				r.Use(httpmw.ExtractSurveyParam(options.Database))
				r.Get("/", api.survey)
				r.Patch("/", api.patchSurvey)
				r.Delete("/", api.deleteSurvey)
				r.Get("/responses", api.surveyResponses)
			})
		})
	})

	// The widget API is unauthenticated; everything is scoped by the
	// environment ID in the URL.
	r.Route("/api/client", func(r chi.Router) {
		r.Use(httprate.LimitByIP(options.ClientRateLimit, time.Minute))

		r.Route("/{environment}", func(r chi.Router) {
			r.Use(httpmw.ExtractEnvironmentParam(options.Database))
			r.Post("/people", api.postClientPerson)
			r.Post("/people/{person}/attributes", api.postClientAttribute)
			r.Post("/actions", api.postClientAction)
			r.Get("/surveys", api.clientSurveys)
			r.Post("/responses", api.postClientResponse)
		})
		r.Route("/responses/{response}", func(r chi.Router) {
			r.Use(httpmw.ExtractResponseParam(options.Database))
			r.Put("/", api.putClientResponse)
		})
	})

	return api
}

// API holds the handlers and their dependencies.
type API struct {
	*Options

	Handler chi.Router
}

// requireEnvironmentAccess rejects management requests for environments
// outside the session user's teams. The client API shares the param
// middleware but not this check.
func (api *API) requireEnvironmentAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		environment := httpmw.EnvironmentParam(r)
		user := httpmw.User(r)

		allowed, err := authz.CanUserAccessEnvironment(r.Context(), api.Database, user.ID, environment.ID)
		if err != nil {
			httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
				Message: "check environment access: " + err.Error(),
			})
			return
		}
		if !allowed {
			httpapi.ResourceNotFound(rw, "environment")
			return
		}
		next.ServeHTTP(rw, r)
	})
}
