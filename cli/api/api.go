package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/felixge/httpsnoop"

	"github.com/oaiiae/huma-graphql-example/datastores"
	"github.com/oaiiae/huma-graphql-example/handlers"
	"github.com/oaiiae/huma-graphql-example/resolvers"
	"github.com/oaiiae/huma-graphql-example/router"
	"github.com/oaiiae/huma-graphql-example/web"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"3030"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount REST endpoints at a prefix" default:""`
}

// readinessTimeout bounds the backend ping of the readiness check.
const readinessTimeout = 2 * time.Second

func NewRouter(
	options *RouterOptions,
	title string,
	version string,
	revision string,
	created string,
	contacts datastores.ContactsStore,
	doohickeys datastores.DoohickeysStore,
	logger *slog.Logger,
) (http.Handler, huma.API) {
	buildinfoMetric := joinQuote("build_info{goversion=", runtime.Version(),
		",title=", title,
		",version=", version,
		",revision=", revision,
		",created=", created,
		"} 1\n")
	metriks := newMeters(metrics.NewSet())
	graphql := resolvers.NewHandler(resolvers.NewSchema(&resolvers.Root{
		ContactsStore:   contacts,
		DoohickeysStore: doohickeys,
	}, logger))

	return router.New(title, version,
		func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := doohickeys.Ping(ctx); err != nil {
				logger.LogAttrs(ctx, slog.LevelWarn, "not ready", slog.Any("err", err))
				http.Error(w, "doohickeys store unavailable", http.StatusServiceUnavailable)
			}
		},
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, buildinfoMetric)
			metriks.set.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		router.OptGroup(options.EndpointsPrefix,
			router.OptUseMiddleware(
				ctxlog{}.loggerMiddleware(logger),
				meterRequests(metriks),
				ctxlog{}.recoverMiddleware(logger),
			),
			router.OptAutoRegister(&handlers.Contacts{
				Store:        contacts,
				ErrorHandler: ctxlog{}.errorHandler(logger),
			}),
			router.OptAutoRegister(&handlers.Greeting{}),
			router.OptAutoRegister(&handlers.Redirect{
				Path:     "/northeastern",
				Location: "http://www.northeastern.edu/",
			}),
			router.OptAutoRegister(&handlers.Download{
				Path:        "/dl",
				Filename:    "canyon.svg",
				ContentType: "image/svg+xml",
				Content:     web.Canyon,
			}),
		),
		router.OptHandle(http.MethodPost, "/graphql",
			ctxlog{}.loggerHandler(logger, meterHandler(metriks, "/graphql", graphql))),
		router.OptHandle(http.MethodGet, "/graphql", web.GraphiQL()),
		router.OptHandle(http.MethodGet, "/graphqlReq", web.GraphQLRequest()),
	)
}

// ctxlog is a [context.Context] key and acts as a virtual package for operations related to it.
type ctxlog struct{}

// loggerMiddleware returns a middleware that sets a [slog.Logger] in
// the [context.Context] and logs the request after it has terminated.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		logger := parent.With("x-request-id", ctx.Header("X-Request-Id"))

		start := time.Now()
		next(huma.WithValue(ctx, key, logger.WithGroup("op").With("id", ctx.Operation().OperationID)))

		logger.LogAttrs(context.Background(), slog.LevelInfo,
			joinSpace(ctx.Operation().Method, ctx.Operation().Path, ctx.Version().Proto),
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ref", ctx.Header("Referer")),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// loggerHandler is [ctxlog.loggerMiddleware] for handlers living outside of huma.
func (key ctxlog) loggerHandler(parent *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := parent.With("x-request-id", r.Header.Get("X-Request-Id"))

		m := httpsnoop.CaptureMetrics(next, w, r.WithContext(context.WithValue(r.Context(), key, logger)))

		logger.LogAttrs(context.Background(), slog.LevelInfo,
			joinSpace(r.Method, r.URL.Path, r.Proto),
			slog.String("from", r.RemoteAddr),
			slog.String("ref", r.Referer()),
			slog.String("ua", r.UserAgent()),
			slog.Int("status", m.Code),
			slog.Duration("dur", m.Duration),
		)
	})
}

// recoverMiddleware returns a middleware that recovers and logs the value from panic.
// Also sets status response to [http.StatusInternalServerError].
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			v := recover()
			if v != nil {
				logger, ok := ctx.Context().Value(key).(*slog.Logger)
				if !ok {
					logger = fallback
				}
				logger.LogAttrs(context.Background(), slog.LevelError, "panic occurred", slog.Any("recovered", v))
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// errorHandler returns a function that gets the [slog.Logger] from [context.Context] and logs the error.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level := slog.LevelError
		attrs := []slog.Attr{slog.Any("err", err)}

		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.GetStatus() / 100 {
			case 5: //nolint: mnd // 5XX HTTP Status Codes
				level = slog.LevelError
			case 4: //nolint: mnd // 4XX HTTP Status Codes
				level = slog.LevelWarn
			case 3: //nolint: mnd // 3XX HTTP Status Codes
				level = slog.LevelInfo
			}
			attrs = append(attrs, slog.Int("status", statusErr.GetStatus()))
		}

		logger, ok := ctx.Value(key).(*slog.Logger)
		if !ok {
			logger = fallback
		}
		logger.LogAttrs(context.Background(), level, "error occurred", attrs...)
	}
}

// meters holds request metrics keyed by operation and status.
type meters struct {
	set     *metrics.Set
	refs    sync.Map
	refsMu  sync.Mutex
	buckets []float64
}

type meterRef struct {
	*metrics.Counter
	*metrics.PrometheusHistogram
}

func newMeters(set *metrics.Set) *meters {
	return &meters{
		set:     set,
		buckets: metrics.ExponentialBuckets(1e-3, 5, 6), //nolint: mnd // arbitrary
	}
}

func (m *meters) observe(method, path string, status int, start time.Time) {
	uid := method + " " + path + " " + strconv.Itoa(status)
	val, ok := m.refs.Load(uid)
	if !ok {
		m.refsMu.Lock()
		val, ok = m.refs.Load(uid)
		if !ok {
			labels := joinQuote("{method=", method, ",path=", path, ",status=", strconv.Itoa(status), "}") //nolint: golines
			val = meterRef{
				m.set.NewCounter("http_requests_total" + labels),
				m.set.NewPrometheusHistogramExt("http_request_duration_seconds"+labels, m.buckets),
			}
			m.refs.Store(uid, val)
		}
		m.refsMu.Unlock()
	}
	valref := val.(meterRef) //nolint: errcheck // always true
	valref.Counter.Inc()
	valref.PrometheusHistogram.UpdateDuration(start)
}

func meterRequests(m *meters) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)
		m.observe(op.Method, op.Path, ctx.Status(), start)
	}
}

// meterHandler is [meterRequests] for handlers living outside of huma,
// requests are labeled with path rather than the request URL.
func meterHandler(m *meters, path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		snoop := httpsnoop.CaptureMetrics(next, w, r)
		m.observe(r.Method, path, snoop.Code, start)
	})
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }

// joinSpace is [strings.Join] with space as separator.
func joinSpace(elems ...string) string { return strings.Join(elems, ` `) }

// OpenAPI describes the API served by [NewRouter] as YAML. It builds the
// router on empty in-memory stores and logs nothing.
func OpenAPI(options *RouterOptions, title, version string) ([]byte, error) {
	_, api := NewRouter(options, title, version, "", "",
		datastores.NewContactsInmem(), datastores.NewDoohickeysInmem(),
		slog.New(slog.DiscardHandler))
	return api.OpenAPI().YAML()
}
