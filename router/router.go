package router

import (
	"maps"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

// Option configures routes, huma operations are registered on api and
// plain handlers on mux.
type Option func(mux chi.Router, api huma.API)

// New returns the service handler and its API description.
//
// Health checks are served at /liveness and /readiness, metrics at /metrics.
// Request bodies are read as JSON or as urlencoded forms.
func New(
	title, version string,
	readiness http.HandlerFunc,
	writeMetrics http.HandlerFunc,
	opts ...Option,
) (http.Handler, huma.API) {
	mux := chi.NewMux()
	mux.Get("/liveness", func(http.ResponseWriter, *http.Request) {})
	mux.Get("/readiness", readiness)
	mux.Get("/metrics", writeMetrics)

	config := huma.DefaultConfig(title, version)
	config.Formats = maps.Clone(config.Formats)
	config.Formats["application/x-www-form-urlencoded"] = formFormat
	api := humachi.New(mux, config)
	for _, opt := range opts {
		opt(mux, api)
	}

	return mux, api
}

// OptUseMiddleware adds middlewares to operations registered afterwards.
func OptUseMiddleware(middlewares ...func(huma.Context, func(huma.Context))) Option {
	return func(_ chi.Router, api huma.API) { api.UseMiddleware(middlewares...) }
}

// OptGroup applies opts to a group of api mounted at prefix.
func OptGroup(prefix string, opts ...Option) Option {
	return func(mux chi.Router, api huma.API) {
		group := huma.NewGroup(api, prefix)
		for _, opt := range opts {
			opt(mux, group)
		}
	}
}

// OptAutoRegister registers the operations of server, see [huma.AutoRegister].
func OptAutoRegister(server any) Option {
	return func(_ chi.Router, api huma.API) { huma.AutoRegister(api, server) }
}

// OptHandle mounts a plain handler for method and pattern, outside of api.
func OptHandle(method, pattern string, handler http.Handler) Option {
	return func(mux chi.Router, _ huma.API) { mux.Method(method, pattern, handler) }
}
