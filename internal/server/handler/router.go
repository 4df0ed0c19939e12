package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	middlewarePkg "github.com/radiantlabs/cyberboy/internal/middleware"
	authHandler "github.com/radiantlabs/cyberboy/internal/server/handler/auth"
	sessionHandler "github.com/radiantlabs/cyberboy/internal/server/handler/session"
	authService "github.com/radiantlabs/cyberboy/internal/server/service/auth"
	sessionService "github.com/radiantlabs/cyberboy/internal/server/service/session"
	"github.com/radiantlabs/cyberboy/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(authSvc *authService.Service, sessionSvc *sessionService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		authHandler.New(authSvc).RegisterRoutes(api)
		sessionHandler.New(sessionSvc).RegisterRoutes(api)
	})

	return r
}
