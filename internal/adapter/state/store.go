// Package state persists yesterday's average temperature between runs.
//
// Three backends share one contract: Load reports (value, true, nil) after a
// successful Save and (0, false, nil) before the first one. A damaged record
// is an error, never a different number.
package state

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/config"
	"github.com/jonboulle/clockwork"
)

// Snapshot is the stored value with the time it was written.
type Snapshot struct {
	Celsius    float64
	ObservedAt time.Time
}

// Store is implemented by every backend. It satisfies
// pipeline.PriorTemperatureStore.
type Store interface {
	Load(ctx context.Context) (float64, bool, error)
	Save(ctx context.Context, celsius float64) error
	Snapshot(ctx context.Context) (Snapshot, bool, error)
	Close() error
}

// Open returns the backend selected by STATE_BACKEND.
func Open(cfg *config.Config, clock clockwork.Clock) (Store, error) {
	switch cfg.StateBackend {
	case config.StateBackendFile:
		return NewFileStore(cfg.StatePath), nil
	case config.StateBackendSQLite:
		return OpenSQLite(cfg.StatePath, clock)
	case config.StateBackendPostgres:
		return OpenPostgres(cfg.StateDSN, clock)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
