package mood

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	moodService "github.com/soulnest/soulnest/backend/internal/service/mood"
	"github.com/soulnest/soulnest/backend/pkg/utils"
)

// Handler serves mood tracking endpoints.
type Handler struct {
	moodSvc *moodService.Service
	logger  *zap.Logger
}

// New creates the mood handler.
func New(moodSvc *moodService.Service, logger *zap.Logger) *Handler {
	return &Handler{moodSvc: moodSvc, logger: logger}
}

// RegisterRoutes mounts the mood routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mood", h.handleLogMood)
	r.Get("/moods", h.handleListMoods)
}

type moodRequest struct {
	Mood   *string `json:"mood" validate:"required"`
	Note   *string `json:"note"`
	UserID *string `json:"user_id"`
}

func (h *Handler) handleLogMood(w http.ResponseWriter, r *http.Request) {
	var payload moodRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var userID string
	if payload.UserID != nil {
		userID = *payload.UserID
	}

	status, err := h.moodSvc.Log(r.Context(), userID, *payload.Mood, payload.Note)
	if err != nil {
		h.logger.Error("log mood failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.RespondStatus(w, status)
}

func (h *Handler) handleListMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := h.moodSvc.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.logger.Error("list moods failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, moods)
}
