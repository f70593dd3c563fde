package inbound

import (
	"github.com/shandysiswandi/passgate/internal/otp/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passcode lifecycle.
type HTTPEndpoint struct {
	uc uc
}

// Issue generates a passcode for a phone number and delivers it.
// @Summary Issue a one-time passcode
// @Description Generates a fresh passcode bound to the phone number, replacing any pending one, and delivers it via SMS.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body IssueRequest true "Issue payload"
// @Success 200 {object} router.successResponse{data=IssueResponse} "Issue result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 502 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/issue [post]
func (h *HTTPEndpoint) Issue(r *router.Request) (any, error) {
	var req IssueRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Issue(r.Context(), usecase.IssueInput{Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return IssueResponse{
		Issued:    resp.Issued,
		ExpiresAt: resp.ExpiresAt,
		Code:      resp.Code,
	}, nil
}

// Verify checks a passcode against the pending challenge.
// @Summary Verify a one-time passcode
// @Description Checks the submitted code against the pending challenge. A successful verification consumes the challenge.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Passcode mismatch"
// @Failure 404 {object} router.errorResponse "No pending challenge"
// @Failure 422 {object} router.errorResponse "Passcode expired or validation error"
// @Failure 429 {object} router.errorResponse "Too many failed attempts"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Verified: resp.Verified}, nil
}
