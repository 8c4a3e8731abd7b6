package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/josephgoksu/veritas/internal/api"
	"github.com/josephgoksu/veritas/internal/config"
	"github.com/josephgoksu/veritas/internal/detector"
	"github.com/josephgoksu/veritas/internal/history"
	"github.com/josephgoksu/veritas/internal/logger"
	"github.com/josephgoksu/veritas/internal/telemetry"
	"github.com/josephgoksu/veritas/models"
	"github.com/josephgoksu/veritas/store"
	"github.com/josephgoksu/veritas/types"
)

const (
	sqliteFileName  = "veritas.db"
	redisKeyPrefix  = "veritas"
	redisPingWindow = 3 * time.Second
)

// desk bundles everything a command needs to run the two lanes.
type desk struct {
	cfg       *types.AppConfig
	logger    *zap.Logger
	kv        store.KV
	history   *history.Store
	client    *api.Client
	detector  *detector.Detector
	telemetry telemetry.Client
}

// openDesk wires logging, storage, history, the backend client and
// telemetry from the loaded configuration, and loads persisted history.
func openDesk(ctx context.Context) (*desk, error) {
	cfg := GetConfig()

	log, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Path:    config.GetLogPath(),
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	kv, err := openKV(ctx, cfg.Storage, config.GetDataPath())
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	tel := newTelemetry(cfg.Telemetry, log)

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		api.WithLogger(log.Named("api")),
	)
	hist := history.New(kv,
		history.WithKey(cfg.Storage.Key),
		history.WithLogger(log.Named("history")),
	)
	d := detector.New(
		trackedAnalyzer{client: client, tel: tel},
		trackedScraper{client: client, tel: tel},
		hist,
		detector.WithLogger(log.Named("detector")),
	)
	d.LoadHistory(ctx)

	log.Debug("desk ready",
		zap.String("backend", client.BaseURL()),
		zap.String("storage", cfg.Storage.Backend),
		zap.Int("history", hist.Len()),
	)

	return &desk{
		cfg:       cfg,
		logger:    log,
		kv:        kv,
		history:   hist,
		client:    client,
		detector:  d,
		telemetry: tel,
	}, nil
}

// Close flushes telemetry and logs and releases storage.
func (d *desk) Close() {
	if err := d.telemetry.Close(); err != nil {
		d.logger.Debug("telemetry close", zap.Error(err))
	}
	if err := d.kv.Close(); err != nil {
		d.logger.Warn("close storage", zap.Error(err))
	}
	_ = d.logger.Sync()
}

// watchHistory keeps the detector's history in step with other processes
// writing the same snapshot. Only the file backend can be watched.
func (d *desk) watchHistory(ctx context.Context) {
	if !d.history.Watch(ctx, func() { d.detector.RefreshHistory() }) {
		d.logger.Debug("history watch not available", zap.String("storage", d.cfg.Storage.Backend))
	}
}

// openKV opens the configured storage backend under dataDir.
func openKV(ctx context.Context, cfg types.StorageConfig, dataDir string) (store.KV, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemoryKV(), nil
	case "sqlite":
		kv, err := store.NewSQLiteKV(filepath.Join(dataDir, sqliteFileName))
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return kv, nil
	case "redis":
		kv := store.NewRedisKV(cfg.RedisAddr, "", 0, redisKeyPrefix)
		pingCtx, cancel := context.WithTimeout(ctx, redisPingWindow)
		defer cancel()
		if err := kv.Ping(pingCtx); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return kv, nil
	case "file", "":
		kv, err := store.NewFileKV(afero.NewOsFs(), dataDir)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newTelemetry(cfg types.TelemetryConfig, log *zap.Logger) telemetry.Client {
	prefs, err := telemetry.Load()
	if err != nil {
		log.Debug("telemetry preferences unreadable", zap.Error(err))
		return telemetry.NoopClient{}
	}
	client, err := telemetry.NewClient(telemetry.ClientConfig{
		APIKey:   cfg.APIKey,
		Endpoint: cfg.Endpoint,
		Version:  version,
		Config:   prefs,
	})
	if err != nil {
		log.Debug("telemetry disabled", zap.Error(err))
		return telemetry.NoopClient{}
	}
	return client
}

// trackedAnalyzer reports analyze lane outcomes to telemetry.
type trackedAnalyzer struct {
	client *api.Client
	tel    telemetry.Client
}

func (a trackedAnalyzer) Analyze(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error) {
	result, err := a.client.Analyze(ctx, text, claimedSource)
	if !errors.Is(err, api.ErrEmptyInput) {
		telemetry.TrackLane(a.tel, telemetry.LaneAnalyze, err)
	}
	return result, err
}

// trackedScraper reports scrape lane outcomes to telemetry.
type trackedScraper struct {
	client *api.Client
	tel    telemetry.Client
}

func (s trackedScraper) ScrapeVerify(ctx context.Context, text string) (*models.ScrapeResult, error) {
	result, err := s.client.ScrapeVerify(ctx, text)
	if !errors.Is(err, api.ErrEmptyInput) {
		telemetry.TrackLane(s.tel, telemetry.LaneScrape, err)
	}
	return result, err
}
