package recorder

import (
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// RunSnapshot holds everything worth keeping from one dashboard run.
type RunSnapshot struct {
	StartedAt time.Time
	Groups    []model.GroupResult
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
