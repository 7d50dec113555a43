package journal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	journalService "github.com/soulnest/soulnest/backend/internal/service/journal"
	"github.com/soulnest/soulnest/backend/internal/store"
	"github.com/soulnest/soulnest/backend/pkg/utils"
)

// Handler serves journal CRUD endpoints.
type Handler struct {
	journalSvc *journalService.Service
	logger     *zap.Logger
}

// New creates the journal handler.
func New(journalSvc *journalService.Service, logger *zap.Logger) *Handler {
	return &Handler{journalSvc: journalSvc, logger: logger}
}

// RegisterRoutes mounts the journal routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/journal", h.handleCreate)
	r.Get("/journals", h.handleList)
	r.Get("/journals/{journalID}", h.handleGet)
	r.Put("/journals/{journalID}", h.handleUpdate)
	r.Delete("/journals/{journalID}", h.handleDelete)
}

// journalRequest is shared by create and update. On update user_id is
// accepted but ignored.
type journalRequest struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
	UserID  *string `json:"user_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload journalRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var userID string
	if payload.UserID != nil {
		userID = *payload.UserID
	}

	id, err := h.journalSvc.Create(r.Context(), userID, *payload.Title, *payload.Content)
	if err != nil {
		h.respondFailure(w, "create journal failed", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"journal_id": id.String()})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	journals, err := h.journalSvc.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.respondFailure(w, "list journals failed", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, journals)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	j, err := h.journalSvc.Get(r.Context(), journalID(r))
	if err != nil {
		h.respondFailure(w, "get journal failed", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, j)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload journalRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.journalSvc.Update(r.Context(), journalID(r), *payload.Title, *payload.Content)
	if err != nil {
		h.respondFailure(w, "update journal failed", err)
		return
	}
	utils.RespondStatus(w, status)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	status, err := h.journalSvc.Delete(r.Context(), journalID(r))
	if err != nil {
		h.respondFailure(w, "delete journal failed", err)
		return
	}
	utils.RespondStatus(w, status)
}

func journalID(r *http.Request) store.ID {
	return store.ID(chi.URLParam(r, "journalID"))
}

func (h *Handler) respondFailure(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, journalService.ErrJournalNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Journal not found")
		return
	}
	h.logger.Error(msg, zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, "internal server error")
}
