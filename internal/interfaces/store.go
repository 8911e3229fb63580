package interfaces

import (
	"context"

	"portfolio-news-alerts/internal/dedup"
	"portfolio-news-alerts/internal/types"
)

// SeenStore persists fingerprints across breaking runs. Load never fails; an
// unreadable store reads as empty.
type SeenStore interface {
	Load(ctx context.Context) dedup.SeenSet
	Save(ctx context.Context, s dedup.SeenSet) error
}

// RunRecorder keeps a journal of completed runs.
type RunRecorder interface {
	Record(ctx context.Context, r types.RunResult) error
}
