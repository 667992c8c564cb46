package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/lanetap/internal/app"
)

// Controller is the part of the app the detection endpoint drives.
type Controller interface {
	SetDetection(enabled bool) error
	Status() app.Status
}

// DetectionHandler reports and toggles detection.
type DetectionHandler struct {
	controller Controller
}

// NewDetectionHandler creates a new DetectionHandler.
func NewDetectionHandler(c Controller) *DetectionHandler {
	return &DetectionHandler{controller: c}
}

type setDetectionRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and POST /api/detection.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.controller.Status())
	case http.MethodPost:
		h.set(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DetectionHandler) set(w http.ResponseWriter, r *http.Request) {
	var req setDetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	if err := h.controller.SetDetection(*req.Enabled); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.controller.Status())
}
