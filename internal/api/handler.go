package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies; four counts never need more
const maxBodyBytes = 64 << 10

// Handler serves the JSON API over net/http
type Handler struct {
	service *Service
	logger  *log.Logger
}

// NewHandler creates a new API handler
func NewHandler(service *Service, logger *log.Logger) *Handler {
	return &Handler{service: service, logger: logger.WithPrefix("api")}
}

// Calculate handles POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, DecodeError(err))
		return
	}

	report, err := h.service.Calculate(req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("X-Analysis-ID", uuid.NewString())
	writeJSON(w, http.StatusOK, report)
}

// SampleSize handles POST /api/sample-size
func (h *Handler) SampleSize(w http.ResponseWriter, r *http.Request) {
	var req SampleSizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, DecodeError(err))
		return
	}

	plan, err := h.service.PlanSampleSize(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("calculation failed", "err", err)
	} else {
		h.logger.Warn("rejected request", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
