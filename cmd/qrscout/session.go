package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/qrscout/internal/config"
	"github.com/alfredjeanlab/qrscout/internal/engine"
	"github.com/alfredjeanlab/qrscout/internal/events"
	"github.com/alfredjeanlab/qrscout/internal/schema"
	"github.com/alfredjeanlab/qrscout/internal/store"
	"github.com/alfredjeanlab/qrscout/internal/store/file"
	"github.com/alfredjeanlab/qrscout/internal/store/memory"
	"github.com/alfredjeanlab/qrscout/internal/store/postgres"
	"github.com/alfredjeanlab/qrscout/internal/store/sqlite"
)

// openStore returns the store backend selected by c.
func openStore(c *config.Config) (store.Store, error) {
	switch c.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreFile:
		return file.New(c.StateDir)
	case config.StoreSQLite:
		return sqlite.New(c.SQLitePath())
	case config.StorePostgres:
		return postgres.New(c.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown store %q", c.Store)
}

// openPublisher connects to NATS when configured.
func openPublisher(c *config.Config) (events.Publisher, error) {
	if c.NATSURL == "" {
		logger.Debug("events disabled (QRSCOUT_NATS_URL not set)")
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(c.NATSURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("events enabled", "nats_url", c.NATSURL)
	return pub, nil
}

// newSession builds and starts an engine from the loaded configuration.
// With --schema, the given file replaces the stored schema for this
// session and nothing is read from the store. When tap is non-nil it sees
// every event before the configured publisher does.
func newSession(ctx context.Context, tap *events.RecordingPublisher) (*engine.Engine, error) {
	policy, err := engine.ParseResetPolicy(cfg.ResetPolicy)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}
	pub, err := openPublisher(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}
	if tap != nil {
		tap.Next = pub
		pub = tap
	}

	opts := []engine.Option{
		engine.WithStore(st),
		engine.WithStoreKey(cfg.StoreKey),
		engine.WithPublisher(pub),
		engine.WithLogger(logger),
		engine.WithResetPolicy(policy),
		engine.WithRecordOptions(cfg.RecordOptions()),
	}

	if schemaPath != "" {
		data, err := schema.ReadFile(schemaPath)
		if err != nil {
			pub.Close()
			st.Close()
			return nil, err
		}
		def, err := schema.Parse(data)
		if err != nil {
			pub.Close()
			st.Close()
			return nil, fmt.Errorf("%s: %w", schemaPath, err)
		}
		return engine.New(append(opts, engine.WithDefault(def))...), nil
	}

	eng := engine.New(opts...)
	if err := eng.Start(ctx); err != nil {
		eng.Close()
		return nil, err
	}
	return eng, nil
}
