package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"invensmart/internal/errors"
	"invensmart/internal/observability"
)

type feedbackRequest struct {
	Message string `json:"message"`
}

type feedbackResponse struct {
	ID       string `json:"id"`
	Received bool   `json:"received"`
}

// HandleFeedback acknowledges a free-text submission. There is no storage
// contract: the message is logged with its acknowledgement ID and dropped.
func (h *APIHandlers) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid feedback payload"), requestID)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		errors.WriteError(w, h.logger, errors.Validation("feedback message cannot be empty"), requestID)
		return
	}

	id := uuid.NewString()
	h.logger.Info("feedback received",
		"feedback_id", id,
		"length", len(req.Message),
		"request_id", requestID,
	)

	errors.WriteSuccess(w, feedbackResponse{ID: id, Received: true})
}
