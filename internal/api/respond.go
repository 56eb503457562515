package api

import (
	"encoding/json"
	"net/http"

	"github.com/dishly/restaurant-api/internal/apperr"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (h *Handler) respondWithData(w http.ResponseWriter, code int, data interface{}) {
	h.respondWithJSON(w, code, envelope{Success: true, Data: data})
}

func (h *Handler) respondWithMessage(w http.ResponseWriter, message string) {
	h.respondWithJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, envelope{Success: false, Message: message})
}

// fail renders a business error through the apperr taxonomy. Untagged errors
// log at error level and render a generic 500.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		h.logger.WithError(err).Error("Request failed")
	}
	h.respondWithError(w, apperr.HTTPStatus(err), apperr.Message(err))
}

func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request payload", err)
	}
	return nil
}
