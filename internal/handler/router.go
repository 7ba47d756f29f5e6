package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sahaara/backend/internal/handler/chat"
	"github.com/sahaara/backend/internal/handler/checkin"
	middlewarePkg "github.com/sahaara/backend/internal/middleware"
	chatService "github.com/sahaara/backend/internal/service/chat"
	checkinService "github.com/sahaara/backend/internal/service/checkin"
	"github.com/sahaara/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(checkins *checkinService.Workflow, chats *chatService.Workflow) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	checkinHandler := checkin.New(checkins)
	chatHandler := chat.New(chats)

	r.Route("/api", func(api chi.Router) {
		checkinHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
