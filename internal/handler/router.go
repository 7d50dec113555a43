package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/soulnest/soulnest/backend/internal/handler/chat"
	"github.com/soulnest/soulnest/backend/internal/handler/journal"
	"github.com/soulnest/soulnest/backend/internal/handler/mood"
	middlewarePkg "github.com/soulnest/soulnest/backend/internal/middleware"
	chatService "github.com/soulnest/soulnest/backend/internal/service/chat"
	journalService "github.com/soulnest/soulnest/backend/internal/service/journal"
	moodService "github.com/soulnest/soulnest/backend/internal/service/mood"
	"github.com/soulnest/soulnest/backend/internal/store"
	"github.com/soulnest/soulnest/backend/pkg/utils"
)

// WelcomeMessage is returned by GET /api/.
const WelcomeMessage = "SoulNest API - Your safe emotional space 🤍"

// Services bundles what the router needs to serve the API.
type Services struct {
	Store   store.DocumentStore
	Chat    *chatService.Service
	Mood    *moodService.Service
	Journal *journalService.Service
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services, corsOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := middlewarePkg.NewMetrics("soulnest")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(corsOrigins))
	r.Use(metrics.Middleware)

	r.Get("/healthz", healthCheck(svc.Store))
	r.Handle("/metrics", metrics.Handler())

	chatHandler := chat.New(svc.Chat, logger)
	wsHandler := chat.NewWebSocketHandler(svc.Chat, logger)
	moodHandler := mood.New(svc.Mood, logger)
	journalHandler := journal.New(svc.Journal, logger)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
		})

		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
		moodHandler.RegisterRoutes(api)
		journalHandler.RegisterRoutes(api)
	})

	return r
}

func healthCheck(db store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
