package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/open-dcat/open-dcat/internal/audit"
	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/config"
	"github.com/open-dcat/open-dcat/internal/connectors"
	"github.com/open-dcat/open-dcat/internal/connectors/csvfile"
	"github.com/open-dcat/open-dcat/internal/connectors/objectstore"
	"github.com/open-dcat/open-dcat/internal/connectors/postgres"
	"github.com/open-dcat/open-dcat/internal/kms"
)

// app is the shared wiring every database-backed command runs on.
type app struct {
	cfg      config.Config
	pool     *pgxpool.Pool
	store    *catalog.Store
	cache    *catalog.Cache
	redis    *redis.Client
	sealer   kms.Encryptor
	registry *connectors.Registry
	auditor  audit.Recorder
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, err
		}
		rdb = redis.NewClient(opts)
	}

	sealer, err := buildEncryptor(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	registry, err := buildConnectorRegistry(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	store := catalog.NewStore(pool)

	var auditor audit.Recorder = &audit.LogRecorder{}
	if cfg.AuditToDB {
		auditor = &audit.PGRecorder{Pool: pool}
	}

	return &app{
		cfg:      cfg,
		pool:     pool,
		store:    store,
		cache:    catalog.NewCache(store, rdb, cfg.CacheTTL, slog.Default()),
		redis:    rdb,
		sealer:   sealer,
		registry: registry,
		auditor:  auditor,
	}, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.pool.Close()
}

// openConnector unseals the stored connection parameters and opens a live
// connector for the data source.
func (a *app) openConnector(ctx context.Context, ds *catalog.DataSourceConfig) (connectors.Connector, error) {
	raw, err := a.sealer.Decrypt(ctx, ds.ConfigEnc)
	if err != nil {
		return nil, err
	}
	return a.registry.Open(ctx, ds.Kind, raw)
}

// newAuditRecord stamps a CLI audit record. The actor comes from
// OPEN_DCAT_ACTOR, falling back to the OS user.
func newAuditRecord(action, resource string, success bool) audit.Record {
	actor := os.Getenv("OPEN_DCAT_ACTOR")
	if actor == "" {
		actor = os.Getenv("USER")
	}
	if actor == "" {
		actor = "cli"
	}
	return audit.NewRecord(actor, action, resource, success)
}

func buildEncryptor(cfg config.Config) (kms.Encryptor, error) {
	if cfg.DevPlainKeys {
		return kms.Passthrough{}, nil
	}
	return kms.NewVaultTransit(kms.Options{
		Address:   cfg.VaultAddr,
		Token:     cfg.VaultToken,
		Namespace: cfg.VaultNamespace,
		Mount:     cfg.VaultMount,
		KeyName:   cfg.VaultKeyName,
	})
}

func buildConnectorRegistry(cfg config.Config) (*connectors.Registry, error) {
	reg := connectors.NewRegistry()
	if err := reg.Register(&postgres.Definition{ProfileWorkers: cfg.ProfileWorkers}); err != nil {
		return nil, err
	}
	if err := reg.Register(&csvfile.Definition{ProfileWorkers: cfg.ProfileWorkers}); err != nil {
		return nil, err
	}
	if err := reg.Register(&objectstore.Definition{}); err != nil {
		return nil, err
	}
	return reg, nil
}
