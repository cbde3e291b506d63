// Command cdep-dashboard is a small gateway that fronts the dashboard API
// with the goCDEP client: it owns one session, guards its routes by the
// session's permissions, and renders aggregated JSON views for a thin UI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	goCDEP "github.com/MrEthical07/goCDEP"
	"github.com/MrEthical07/goCDEP/guard"
	"github.com/MrEthical07/goCDEP/metrics/export/prometheus"
	"github.com/MrEthical07/goCDEP/storage"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := goCDEP.ConfigFromEnv()
	if err != nil {
		logger.Fatal("configuration", zap.Error(err))
	}

	backend, err := sessionBackend(logger)
	if err != nil {
		logger.Fatal("session backend", zap.Error(err))
	}

	client, err := goCDEP.New().
		WithConfig(cfg).
		WithStorage(backend).
		WithAuditSink(goCDEP.NewJSONWriterSink(os.Stderr)).
		Build()
	if err != nil {
		logger.Fatal("build client", zap.Error(err))
	}
	defer client.Close()

	gw := &gateway{client: client, logger: logger}

	addr := os.Getenv("CDEP_GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           gw.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func sessionBackend(logger *zap.Logger) (storage.Backend, error) {
	switch os.Getenv("CDEP_SESSION_BACKEND") {
	case "redis":
		addr := os.Getenv("CDEP_REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		logger.Info("session backend", zap.String("kind", "redis"), zap.String("addr", addr))
		return storage.NewRedisBackend(rdb, os.Getenv("CDEP_SESSION_KEY")), nil
	case "memory":
		logger.Info("session backend", zap.String("kind", "memory"))
		return storage.NewMemoryBackend(), nil
	default:
		path := os.Getenv("CDEP_SESSION_FILE")
		if path == "" {
			path = "cdep_session.json"
		}
		logger.Info("session backend", zap.String("kind", "file"), zap.String("path", path))
		return storage.NewFileBackend(path), nil
	}
}

type gateway struct {
	client *goCDEP.Client
	logger *zap.Logger
}

// routes mirrors the dashboard's navigation tree: a public login pair, a
// session-gated group with per-page permission gates, and the operational
// endpoints outside both.
func (g *gateway) routes() http.Handler {
	view := g.client.Session()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(g.logRequests)

	r.Post("/login", g.handleLogin)
	r.Post("/logout", g.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireSession(view, "/login"))

		r.Get("/", g.handleOverview)

		r.Group(func(r chi.Router) {
			r.Use(guard.RequirePermission(view, "projects", "view", "/"))
			r.Get("/pm/dashboard", g.handleProjects)
			r.Get("/client/projects", g.handleProjects)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.RequirePermission(view, "timesheets", "create", "/"))
			r.Get("/dev/timesheets", g.handleTimesheets)
			r.Post("/dev/timesheets", g.handleCreateTimesheet)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.RequirePermission(view, "roles", "view", "/"))
			r.Get("/admin/rbac", g.handleRBAC)
		})
	})

	exporter := prometheus.NewPrometheusExporter(g.client)
	r.Method(http.MethodGet, "/metrics", exporter.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(envOr("CDEP_CORS_ORIGINS", "*"), ","),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (g *gateway) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		g.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (g *gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := g.client.Login(r.Context(), body.Email, body.Password); err != nil {
		if errors.Is(err, goCDEP.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		g.logger.Error("login", zap.Error(err))
		writeError(w, http.StatusBadGateway, "login failed")
		return
	}

	redirectTo := "/"
	if from := r.URL.Query().Get(guard.FromParam); safeRelativePath(from) {
		redirectTo = from
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       g.client.CurrentUser(),
		"redirectTo": redirectTo,
	})
}

// safeRelativePath rejects absolute URLs and protocol-relative ones, so the
// post-login redirect can never leave the origin.
func safeRelativePath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

func (g *gateway) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := g.client.Logout(r.Context()); err != nil {
		g.logger.Warn("logout", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOverview aggregates the landing-page figures: record counts, the
// risk distribution, and how many projects sit in an elevated bucket. The
// quiet "no_logs" state is folded into "ok" for display.
func (g *gateway) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := g.client.Projects(ctx)
	if err != nil {
		g.writeUpstreamError(w, "projects", err)
		return
	}
	allocations, err := g.client.Allocations(ctx)
	if err != nil {
		g.writeUpstreamError(w, "allocations", err)
		return
	}
	timesheets, err := g.client.MyTimesheets(ctx)
	if err != nil {
		g.writeUpstreamError(w, "timesheets", err)
		return
	}
	risks, err := g.client.ProjectRisks(ctx)
	if err != nil {
		g.writeUpstreamError(w, "risks", err)
		return
	}

	distribution := map[goCDEP.RiskStatus]int{}
	elevated := 0
	for _, risk := range risks {
		status := risk.Status
		if status == goCDEP.RiskNoLogs {
			status = goCDEP.RiskOK
		}
		distribution[status]++
		if risk.Status.Elevated() {
			elevated++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":         g.client.CurrentUser(),
		"projects":     len(projects),
		"allocations":  len(allocations),
		"timesheets":   len(timesheets),
		"risk":         distribution,
		"elevatedRisk": elevated,
	})
}

func (g *gateway) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := g.client.Projects(r.Context())
	if err != nil {
		g.writeUpstreamError(w, "projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (g *gateway) handleTimesheets(w http.ResponseWriter, r *http.Request) {
	timesheets, err := g.client.MyTimesheets(r.Context())
	if err != nil {
		g.writeUpstreamError(w, "timesheets", err)
		return
	}
	writeJSON(w, http.StatusOK, timesheets)
}

func (g *gateway) handleCreateTimesheet(w http.ResponseWriter, r *http.Request) {
	var input goCDEP.TimesheetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := g.client.CreateTimesheet(r.Context(), input)
	if err != nil {
		g.writeUpstreamError(w, "create timesheet", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type rbacRow struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// handleRBAC renders the signed-in user's effective grants as one
// module-to-actions table, merged across roles and sorted for stable output.
func (g *gateway) handleRBAC(w http.ResponseWriter, _ *http.Request) {
	user := g.client.CurrentUser()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	merged := map[string]map[string]struct{}{}
	superAdmin := false
	for _, role := range user.Roles {
		if role.IsSuperAdmin {
			superAdmin = true
		}
		for module, actions := range role.Permissions {
			if merged[module] == nil {
				merged[module] = map[string]struct{}{}
			}
			for _, action := range actions {
				merged[module][action] = struct{}{}
			}
		}
	}

	rows := make([]rbacRow, 0, len(merged))
	for module, actions := range merged {
		sorted := make([]string, 0, len(actions))
		for action := range actions {
			sorted = append(sorted, action)
		}
		sort.Strings(sorted)
		rows = append(rows, rbacRow{Module: module, Actions: sorted})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Module < rows[j].Module })

	writeJSON(w, http.StatusOK, map[string]any{
		"superAdmin": superAdmin,
		"grants":     rows,
	})
}

func (g *gateway) writeUpstreamError(w http.ResponseWriter, op string, err error) {
	var apiErr *goCDEP.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.Status, apiErr.Message)
		return
	}
	g.logger.Error("upstream", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusBadGateway, "upstream unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"message": message})
}
