// Package engine holds the live state of one form-filling session: the
// loaded Config, its values, and the stored schema document it came from.
//
// An Engine replaces its Config wholesale on every change. Readers always
// see a complete Config and never share mutable fields with the engine.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/qrscout/internal/events"
	"github.com/alfredjeanlab/qrscout/internal/idgen"
	"github.com/alfredjeanlab/qrscout/internal/model"
	"github.com/alfredjeanlab/qrscout/internal/record"
	"github.com/alfredjeanlab/qrscout/internal/schema"
	"github.com/alfredjeanlab/qrscout/internal/store"
	"github.com/alfredjeanlab/qrscout/internal/store/memory"
)

// ErrEmptyImport is returned by ImportSnapshot when there is no document to
// import, for example when a file picker was dismissed.
var ErrEmptyImport = errors.New("nothing to import")

// Engine owns a session's Config. It is safe for concurrent use.
type Engine struct {
	store     store.Store
	key       string
	publisher events.Publisher
	logger    *slog.Logger
	def       *model.Config
	policy    ResetPolicy
	recOpts   record.Options
	session   string

	mu       sync.RWMutex
	cfg      *model.Config
	revision uint64
}

// New returns an Engine initialized from the default schema. Without
// options it keeps state in memory and publishes nothing.
func New(opts ...Option) *Engine {
	e := &Engine{
		key:     store.DefaultKey,
		logger:  slog.Default(),
		policy:  ResetAll,
		recOpts: record.DefaultOptions,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.New()
	}
	if e.publisher == nil {
		e.publisher = &events.NoopPublisher{}
	}
	if e.def == nil {
		e.def = schema.Default()
	}
	if e.session == "" {
		e.session = idgen.MustSession()
	}
	e.logger = e.logger.With("session", e.session)
	e.cfg = schema.Build(e.def)
	return e
}

// Start loads the stored schema document. When nothing is stored, or the
// stored document cannot be parsed, the session uses the default schema.
// Start may be called again to pick up changes made by other sessions.
func (e *Engine) Start(ctx context.Context) error {
	raw, err := e.store.Load(ctx, e.key)
	if errors.Is(err, store.ErrNotFound) {
		e.logger.Debug("no stored schema, using default", "key", e.key)
		e.useDefault()
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading stored schema: %w", err)
	}

	cfg, err := schema.Load([]byte(raw))
	if err != nil {
		e.logger.Warn("stored schema is invalid, using default", "key", e.key, "err", err)
		e.useDefault()
		return nil
	}

	e.mu.Lock()
	e.replace(cfg)
	e.mu.Unlock()
	e.logger.Debug("loaded stored schema", "key", e.key, "title", cfg.Title, "fields", cfg.FieldCount())
	return nil
}

// useDefault switches to the default schema unless the live schema already
// has the default structure, in which case values are left alone.
func (e *Engine) useDefault() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if schema.Strip(e.cfg).Equal(schema.Strip(e.def)) {
		return
	}
	e.replace(schema.Build(e.def))
}

// Close releases the publisher and the store.
func (e *Engine) Close() error {
	return errors.Join(e.publisher.Close(), e.store.Close())
}

// SessionID returns the ID carried on every event this engine publishes.
func (e *Engine) SessionID() string { return e.session }

// replace installs cfg as the live Config. Callers hold mu.
func (e *Engine) replace(cfg *model.Config) {
	e.cfg = cfg
	e.revision++
}

// Config returns a deep copy of the live Config.
func (e *Engine) Config() *model.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

// Revision counts how many times the live Config has been replaced.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// UpdateValue sets the value of the field with the given code in the first
// section with the given name that contains it. It reports whether such a
// field exists; when it does not, nothing changes.
func (e *Engine) UpdateValue(ctx context.Context, section, code string, v model.Value) bool {
	e.mu.Lock()
	next := e.cfg.Clone()
	f := next.Lookup(section, code)
	if f == nil {
		e.mu.Unlock()
		e.logger.Debug("update ignored, no such field", "section", section, "code", code)
		return false
	}
	f.Value = v
	e.replace(next)
	e.mu.Unlock()

	e.publish(ctx, events.TopicFieldUpdated, events.FieldUpdated{
		SessionID: e.session,
		Section:   section,
		Code:      code,
		Value:     v.String(),
	})
	return true
}

// FieldValue returns the value of the first field with the given code, in
// section order.
func (e *Engine) FieldValue(code string) (model.Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f := e.cfg.Find(code)
	if f == nil {
		return model.Value{}, false
	}
	return f.Value, true
}

// MissingRequiredFields returns the required fields whose value is unset,
// null or empty text, in record order.
func (e *Engine) MissingRequiredFields() []model.Field {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return missing(e.cfg)
}

func missing(cfg *model.Config) []model.Field {
	var out []model.Field
	for _, f := range cfg.Fields() {
		if f.Missing() {
			out = append(out, f)
		}
	}
	return out
}

// Reset returns field values to their defaults according to the engine's
// ResetPolicy. Resetting twice is the same as resetting once.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	next := e.cfg.Clone()
	for i := range next.Sections {
		s := &next.Sections[i]
		if e.policy == ResetHonorPreserve && s.PreserveDataOnReset {
			continue
		}
		for j := range s.Fields {
			s.Fields[j].Value = s.Fields[j].DefaultValue
		}
	}
	e.replace(next)
	e.mu.Unlock()

	e.logger.Debug("form reset", "policy", e.policy)
	e.publish(ctx, events.TopicFormReset, events.FormReset{
		SessionID: e.session,
		Policy:    e.policy.String(),
	})
}

// ExportSnapshot returns the live schema with every value cleared.
func (e *Engine) ExportSnapshot() *model.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return schema.Strip(e.cfg)
}

// ExportJSON encodes the snapshot and returns it with its conventional file
// name.
func (e *Engine) ExportJSON(ctx context.Context) (string, []byte, error) {
	snap := e.ExportSnapshot()
	data, err := schema.Marshal(snap)
	if err != nil {
		return "", nil, fmt.Errorf("exporting schema: %w", err)
	}
	name := schema.FileName(snap)
	e.publish(ctx, events.TopicSchemaExported, events.SchemaExported{
		SessionID: e.session,
		FileName:  name,
		Bytes:     len(data),
	})
	return name, data, nil
}

// ImportSnapshot replaces the live Config with one built from data and
// stores data as the session's schema document. On any error the live
// Config and the stored document are left as they were. Parse failures
// match model.ErrMalformedSchema.
func (e *Engine) ImportSnapshot(ctx context.Context, data []byte) (*model.Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyImport
	}
	cfg, err := schema.Load(data)
	if err != nil {
		return nil, fmt.Errorf("importing schema: %w", err)
	}

	e.mu.Lock()
	if err := e.store.Save(ctx, e.key, string(data)); err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("saving schema: %w", err)
	}
	e.replace(cfg)
	out := cfg.Clone()
	e.mu.Unlock()

	e.logger.Info("schema imported", "title", cfg.Title, "sections", len(cfg.Sections), "fields", cfg.FieldCount())
	e.publish(ctx, events.TopicSchemaImported, events.SchemaImported{
		SessionID:  e.session,
		Title:      cfg.Title,
		Sections:   len(cfg.Sections),
		Fields:     cfg.FieldCount(),
		ImportedAt: time.Now().UTC(),
	})
	return out, nil
}

// ImportReader reads r to the end and imports the result.
func (e *Engine) ImportReader(ctx context.Context, r io.Reader) (*model.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return e.ImportSnapshot(ctx, data)
}

// Forget deletes the stored schema document and returns the session to the
// default schema.
func (e *Engine) Forget(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Delete(ctx, e.key); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting stored schema: %w", err)
	}
	e.replace(schema.Build(e.def))
	e.logger.Info("stored schema deleted", "key", e.key)
	return nil
}

// Record flattens the live values into a record line.
func (e *Engine) Record() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return record.EncodeWith(e.cfg, e.recOpts)
}

// Header returns the column header matching Record.
func (e *Engine) Header() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return record.Header(e.cfg)
}

// Submit encodes the current values when every required field has a value.
// Otherwise it returns the missing fields and an empty record. A submitted
// record is published on TopicRecordSubmitted.
func (e *Engine) Submit(ctx context.Context) (string, []model.Field, error) {
	e.mu.RLock()
	cfg := e.cfg
	e.mu.RUnlock()

	if m := missing(cfg); len(m) > 0 {
		return "", m, nil
	}
	line := record.EncodeWith(cfg, e.recOpts)
	err := e.publisher.Publish(ctx, events.TopicRecordSubmitted, events.RecordSubmitted{
		SessionID:   e.session,
		Title:       cfg.Title,
		Header:      record.Header(cfg),
		Record:      line,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return line, nil, fmt.Errorf("publishing record: %w", err)
	}
	return line, nil, nil
}

// publish emits an event. Failures are logged and do not affect the caller.
func (e *Engine) publish(ctx context.Context, topic string, event any) {
	if err := e.publisher.Publish(ctx, topic, event); err != nil {
		e.logger.Warn("failed to publish event", "topic", topic, "err", err)
	}
}
