package inbound

import (
	"github.com/shandysiswandi/passgate/internal/chat/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
)

// HTTPEndpoint exposes the chat relay handler.
type HTTPEndpoint struct {
	uc uc
}

// Completion relays a message to the completion provider.
// @Summary Relay a chat message
// @Description Forwards the message to the configured completion provider and returns the reply.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body CompletionRequest true "Chat payload"
// @Success 200 {object} router.successResponse{data=CompletionResponse} "Provider reply"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 502 {object} router.errorResponse "Provider unavailable"
// @Router /api/v1/chat [post]
func (h *HTTPEndpoint) Completion(r *router.Request) (any, error) {
	var req CompletionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Completion(r.Context(), usecase.CompletionInput{Message: req.Message})
	if err != nil {
		return nil, err
	}

	return CompletionResponse{Reply: resp.Reply, Model: resp.Model}, nil
}
