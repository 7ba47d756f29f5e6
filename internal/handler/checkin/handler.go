package checkin

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahaara/backend/internal/model/checkin"
	checkinService "github.com/sahaara/backend/internal/service/checkin"
	"github.com/sahaara/backend/pkg/utils"
)

// Handler exposes the check-in workflow over HTTP.
type Handler struct {
	workflow *checkinService.Workflow
}

// New creates the check-in handler.
func New(workflow *checkinService.Workflow) *Handler {
	return &Handler{workflow: workflow}
}

// RegisterRoutes registers the check-in routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/checkin", h.handleCheckIn)
	r.Get("/checkins", h.handleListCheckIns)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var payload checkin.CheckIn
	if !utils.BindJSON(w, r, &payload) {
		return
	}

	result, err := h.workflow.Process(r.Context(), payload)
	if err != nil {
		log.Printf("[checkin] processing failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save check-in")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result.Body())
}

func (h *Handler) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	records, err := h.workflow.History(r.Context())
	if err != nil {
		log.Printf("[checkin] history failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load check-ins")
		return
	}

	utils.RespondJSON(w, http.StatusOK, records)
}
