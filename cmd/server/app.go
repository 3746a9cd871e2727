package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"formprefill/internal/audit"
	"formprefill/internal/content"
	"formprefill/internal/extconf"
	"formprefill/internal/formdef"
	"formprefill/internal/formidentity"
	"formprefill/internal/gatekeeper"
	jwttoken "formprefill/internal/jwt_token"
	"formprefill/internal/platform/config"
	"formprefill/internal/platform/metrics"
	"formprefill/internal/platform/postgres"
	"formprefill/internal/platform/redis"
	"formprefill/internal/prefill/handler"
	"formprefill/internal/profile"
	"formprefill/internal/render"
	rendermetrics "formprefill/internal/render/metrics"
	"formprefill/internal/siteconfig"
	"formprefill/pkg/platform/circuit"
	"formprefill/pkg/platform/httputil"
	authmw "formprefill/pkg/platform/middleware/auth"
	"formprefill/pkg/platform/middleware/metadata"
	request "formprefill/pkg/platform/middleware/request"
	"formprefill/pkg/platform/middleware/requesttime"
)

type healthCheck func(ctx context.Context) error

// application holds the wired collaborators of one server process.
type application struct {
	cfg     config.Server
	log     *slog.Logger
	metrics *metrics.Metrics

	db    *sql.DB
	redis *redis.Client
	kafka *audit.KafkaStore

	sites   *siteconfig.Finder
	audit   *audit.Publisher
	prefill *handler.Handler
	admin   *handler.AdminHandler
	checks  map[string]healthCheck
}

func bootstrap(ctx context.Context, cfg config.Server, log *slog.Logger) (*application, error) {
	key, dev, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}
	if dev {
		log.Warn("JWT_SIGNING_KEY not set, PREFILL_DEV enabled: sessions are signed with the public development key")
	}
	cfg.JWTSigningKey = key

	app := &application{cfg: cfg, log: log, checks: map[string]healthCheck{}}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	scope, err := formidentity.ParseLanguageScope(cfg.FormLanguageScope)
	if err != nil {
		return nil, fmt.Errorf("PREFILL_FORM_LANGUAGE_SCOPE: %w", err)
	}

	var (
		profiles profile.Store
		elements content.Finder
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		app.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		profiles = profile.NewPostgres(db)
		elements = content.NewPostgres(db)
		app.checks["postgres"] = db.PingContext
		log.Info("using postgres stores")
	} else {
		profiles = profile.NewInMemoryStore()
		elements = content.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.redis = rc
	if rc != nil {
		app.checks["redis"] = rc.Health
	}

	var siteStore handler.SiteStore
	if rc != nil {
		src := siteconfig.NewRedisSource(rc.Client)
		siteStore = src
		app.sites = siteconfig.NewFinder(src)
	} else {
		app.sites = siteconfig.NewFinder(siteconfig.NewDirSource(cfg.Sites.Dir))
	}
	if err := app.sites.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load site configuration: %w", err)
	}
	log.Info("site configuration loaded", "sites", app.sites.Len())

	var defaults extconf.Provider = extconf.Static{}
	switch {
	case cfg.ExtensionConfig != "":
		defaults = extconf.NewFileProvider(cfg.ExtensionConfig)
	case rc != nil:
		defaults = extconf.NewRedisProvider(rc.Client)
	}

	storage, err := formStorage(ctx, cfg.Forms)
	if err != nil {
		return nil, err
	}
	resolver := formidentity.New(elements, formdef.NewLoader(cfg.Forms.ExtensionDir, storage),
		formidentity.WithLanguageScope(scope),
		formidentity.WithLogger(log),
	)

	var auditStore audit.Store = audit.NewLogStore(log)
	if len(cfg.Audit.Brokers) > 0 {
		ks, err := audit.NewKafkaStore(cfg.Audit.Brokers, cfg.Audit.Topic)
		if err != nil {
			return nil, err
		}
		app.kafka = ks
		if err := ks.EnsureTopic(ctx, 1, 1); err != nil {
			log.Warn("could not ensure audit topic", "topic", cfg.Audit.Topic, "error", err)
		}
		auditStore = audit.NewFallbackStore(ks, audit.NewLogStore(log), circuit.New("audit-kafka"), log)
		app.checks["kafka"] = ks.Health
	}
	app.audit = audit.NewPublisher(auditStore, audit.WithLogger(log))
	app.metrics = metrics.New(app.audit.Dropped)

	gate := gatekeeper.New(defaults, log)
	app.prefill = handler.New(handler.Deps{
		Profiles: profiles,
		Sites:    app.sites,
		Gate:     gate,
		Elements: elements,
		Renderer: render.New(resolver, rendermetrics.New(), log),
		Audit:    app.audit,
	}, log, app.metrics, cfg.RequestTimeout)
	app.admin = handler.NewAdmin(siteStore, app.sites, gate, cfg.AdminToken, log)

	ok = true
	return app, nil
}

func formStorage(ctx context.Context, cfg config.FormsConfig) (formdef.Storage, error) {
	switch {
	case cfg.S3Bucket != "":
		client, err := formdef.NewS3Client(ctx, formdef.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return formdef.NewS3Storage(client, cfg.S3Bucket, cfg.S3Prefix), nil
	case cfg.StorageDir != "":
		return formdef.NewDirStorage(cfg.StorageDir), nil
	default:
		return nil, nil
	}
}

// Router builds the HTTP routes with the shared middleware stack.
func (a *application) Router() http.Handler {
	jwtService := jwttoken.NewJWTService(a.cfg.JWTSigningKey, a.cfg.JWTIssuer, a.cfg.JWTAudience)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recoverer(a.log))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(a.log))
	r.Use(a.metrics.Middleware)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	a.admin.Register(r)

	r.Group(func(pr chi.Router) {
		pr.Use(authmw.Authenticate(jwttoken.NewJWTServiceAdapter(jwtService), a.cfg.SessionCookie, a.log))
		a.prefill.Register(pr)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range a.checks {
		if err := check(r.Context()); err != nil {
			a.log.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}

// Close releases the backing connections. Safe on a partially built app.
func (a *application) Close() {
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
