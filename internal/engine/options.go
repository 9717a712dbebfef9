package engine

import (
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/qrscout/internal/events"
	"github.com/alfredjeanlab/qrscout/internal/model"
	"github.com/alfredjeanlab/qrscout/internal/record"
	"github.com/alfredjeanlab/qrscout/internal/store"
)

// Option configures an Engine.
type Option func(*Engine)

// WithStore persists imported schema documents in s.
func WithStore(s store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithStoreKey sets the key the schema document is stored under.
func WithStoreKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// WithPublisher sets where session events are sent.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefault replaces the built-in schema used when nothing is stored.
// cfg must already be valid.
func WithDefault(cfg *model.Config) Option {
	return func(e *Engine) { e.def = cfg.Clone() }
}

// WithResetPolicy selects which sections Reset clears. The default is ResetAll.
func WithResetPolicy(p ResetPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithRecordOptions sets how unset and null values appear in records.
func WithRecordOptions(o record.Options) Option {
	return func(e *Engine) { e.recOpts = o }
}

// WithSessionID fixes the session ID instead of generating one.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.session = id }
}

// ResetPolicy selects which sections Reset clears.
type ResetPolicy int

const (
	// ResetAll resets every field, ignoring preserveDataOnReset.
	ResetAll ResetPolicy = iota
	// ResetHonorPreserve skips sections marked preserveDataOnReset.
	ResetHonorPreserve
)

// String returns the name ParseResetPolicy accepts.
func (p ResetPolicy) String() string {
	switch p {
	case ResetAll:
		return "all"
	case ResetHonorPreserve:
		return "preserve"
	}
	return fmt.Sprintf("ResetPolicy(%d)", int(p))
}

// ParseResetPolicy parses "all" or "preserve". The empty string means ResetAll.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch s {
	case "", "all":
		return ResetAll, nil
	case "preserve":
		return ResetHonorPreserve, nil
	}
	return ResetAll, fmt.Errorf("invalid reset policy %q (want all or preserve)", s)
}
