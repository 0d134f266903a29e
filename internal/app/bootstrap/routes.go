// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	assignmentsfeature "github.com/dalemusser/trainhub/internal/app/features/assignments"
	dashboardfeature "github.com/dalemusser/trainhub/internal/app/features/dashboard"
	dayplansfeature "github.com/dalemusser/trainhub/internal/app/features/dayplans"
	errorsfeature "github.com/dalemusser/trainhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/trainhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/trainhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/trainhub/internal/app/features/logout"
	notificationsfeature "github.com/dalemusser/trainhub/internal/app/features/notifications"
	traineesfeature "github.com/dalemusser/trainhub/internal/app/features/trainees"
	"github.com/dalemusser/trainhub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. TrainHub mounts a JSON API: health and
// authentication endpoints are public; everything else sits behind the
// session middleware, with per-role gating inside each feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Every ledger write that also touches the denormalized user fields goes
	// through this runner so the writes land atomically where the deployment
	// supports transactions.
	run := newTxnRunner(deps.MongoClient, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Everything below requires a signed-in user. Role checks happen inside
	// each handler via the gates package.
	r.Group(func(g chi.Router) {
		g.Use(sessionMgr.RequireSignedIn)

		assignmentsHandler := assignmentsfeature.NewHandler(deps.MongoDatabase, run, errLog, logger)
		g.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler))

		dayplansHandler := dayplansfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		g.Mount("/dayplans", dayplansfeature.Routes(dayplansHandler))

		notificationsHandler := notificationsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		g.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

		traineesHandler := traineesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		g.Mount("/trainees", traineesfeature.Routes(traineesHandler))

		dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		g.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
	})

	return r, nil
}
