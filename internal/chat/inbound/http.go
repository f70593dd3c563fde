package inbound

import (
	"context"

	"github.com/shandysiswandi/passgate/internal/chat/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
)

type uc interface {
	Completion(ctx context.Context, in usecase.CompletionInput) (*usecase.CompletionOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/chat", end.Completion)
}
