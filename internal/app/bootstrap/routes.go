// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	albumsfeature "github.com/gatherhub/gatherhub/internal/app/features/albums"
	authfeature "github.com/gatherhub/gatherhub/internal/app/features/auth"
	authgooglefeature "github.com/gatherhub/gatherhub/internal/app/features/authgoogle"
	discussionsfeature "github.com/gatherhub/gatherhub/internal/app/features/discussions"
	eventsfeature "github.com/gatherhub/gatherhub/internal/app/features/events"
	groupsfeature "github.com/gatherhub/gatherhub/internal/app/features/groups"
	healthfeature "github.com/gatherhub/gatherhub/internal/app/features/health"
	photosfeature "github.com/gatherhub/gatherhub/internal/app/features/photos"
	pollsfeature "github.com/gatherhub/gatherhub/internal/app/features/polls"
	ticketsfeature "github.com/gatherhub/gatherhub/internal/app/features/tickets"
	usersfeature "github.com/gatherhub/gatherhub/internal/app/features/users"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/token"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// GatherHub builds the bearer-token codec and auth middleware, then mounts
// the JSON API feature routers: auth, users, groups, events, albums,
// photos, discussions, polls, and tickets.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.GatherHubMongoDatabase

	codec := token.NewCodec(appCfg.TokenKey)
	mw := auth.NewMiddleware(codec)

	r := chi.NewRouter()

	// Global auth middleware: loads the authenticated user ID into the
	// request context when a valid bearer token is present.
	r.Use(mw.LoadUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GatherHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authfeature.NewHandler(db, codec, logger)
	r.Mount("/auth", authfeature.Routes(authHandler, mw))

	googleHandler := authgooglefeature.NewHandler(db, codec,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	if googleHandler.IsConfigured() {
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	} else {
		logger.Info("google sign-in not configured, routes not mounted")
	}

	// User accounts and profiles
	usersHandler := usersfeature.NewHandler(db, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, mw))

	// Groups and membership
	groupsHandler := groupsfeature.NewHandler(db, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, mw))

	// Events and participation
	eventsHandler := eventsfeature.NewHandler(db, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, mw))

	// Albums and photos
	albumsHandler := albumsfeature.NewHandler(db, logger)
	r.Mount("/albums", albumsfeature.Routes(albumsHandler, mw))

	photosHandler := photosfeature.NewHandler(db, logger)
	r.Mount("/photos", photosfeature.Routes(photosHandler, mw))

	// Discussions
	discussionsHandler := discussionsfeature.NewHandler(db, logger)
	r.Mount("/discussions", discussionsfeature.Routes(discussionsHandler, mw))

	// Polls and voting
	pollsHandler := pollsfeature.NewHandler(db, logger)
	r.Mount("/polls", pollsfeature.Routes(pollsHandler, mw))

	// Ticketing
	ticketsHandler := ticketsfeature.NewHandler(db, logger)
	r.Mount("/tickets", ticketsfeature.Routes(ticketsHandler, mw))

	return r, nil
}
