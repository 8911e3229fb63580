package interfaces

import (
	"context"

	"portfolio-news-alerts/internal/types"
)

// Engine performs one run in the configured mode.
type Engine interface {
	Run(ctx context.Context) (*types.RunResult, error)
}
