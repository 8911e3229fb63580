package engineobs

import (
	"context"
	"time"

	"portfolio-news-alerts/internal/interfaces"
	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/trace"
	"portfolio-news-alerts/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
	mode   types.Mode
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine, mode types.Mode) interfaces.Engine {
	return &observableEngine{
		engine: eng,
		mode:   mode,
	}
}

func (oe *observableEngine) Run(ctx context.Context) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting run",
		"mode", oe.mode,
	)

	result, err := oe.engine.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Run failed", err,
			"mode", oe.mode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Run completed",
		"mode", result.Mode,
		"fetched", result.Fetched,
		"fresh", result.Fresh,
		"notified", result.Notified,
		"reason", result.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
