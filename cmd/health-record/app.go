package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/config"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/db"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/editor"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/messaging"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/navigation"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/notify"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/recordclient"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/recordsource"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/store"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/summary"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/telemetry"
)

// app holds the process-wide collaborators built from config.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	source    record.Source
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
	provider  *telemetry.Provider
	closers   []func() error
}

// session is one summary screen with its navigation stack and notifications.
type session struct {
	store *store.Store
	nav   *navigation.Stack
	notes *notify.Collector
	view  *summary.View
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg == nil || cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if cfg != nil {
		logger = logger.Level(cfg.Level())
		zerolog.SetGlobalLevel(cfg.Level())
	}
	log.Logger = logger
	return logger
}

func setup(ctx context.Context, withTelemetry bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		logger := newLogger(nil)
		logger.Error().Err(err).Msg("failed to load config")
		return nil, err
	}
	a := &app{cfg: cfg, logger: newLogger(cfg), publisher: messaging.Noop{}}

	if withTelemetry {
		a.provider, err = telemetry.InitProvider(ctx, cfg.Telemetry())
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to initialize OpenTelemetry, continuing without it")
		}
		a.metrics, err = telemetry.InitMetrics()
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to initialize metrics")
		}
	}

	a.source, err = a.buildSource(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.EventsEnabled {
		publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			a.logger.Warn().Err(err).Msg("RabbitMQ unavailable, section events are disabled")
		} else {
			a.publisher = publisher
			a.closers = append(a.closers, publisher.Close)
		}
	}
	return a, nil
}

func (a *app) buildSource(ctx context.Context) (record.Source, error) {
	switch a.cfg.RecordSource {
	case config.SourcePostgres:
		conn, err := db.Connect(ctx, a.cfg.DB())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		src := recordsource.NewPostgres(conn)
		if err := src.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceHTTP:
		opts := []recordclient.Option{
			recordclient.WithHTTPTimeout(a.cfg.RecordServiceTimeout),
			recordclient.WithDebugLogging(a.cfg.Level() <= zerolog.TraceLevel),
		}
		if a.cfg.RecordServiceToken != "" {
			opts = append(opts, recordclient.WithBearerToken(a.cfg.RecordServiceToken))
		}
		if a.cfg.RecordServiceRetry > 0 {
			opts = append(opts, recordclient.WithRetry(a.cfg.RecordServiceRetry, 200*time.Millisecond))
		}
		client, err := recordclient.New(a.cfg.RecordServiceURL, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported record source %q", a.cfg.RecordSource)
	}
}

func (a *app) newSession(recordID int) (*session, error) {
	vocab, err := a.cfg.Vocabulary()
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	s := &session{
		store: store.New(),
		nav:   navigation.NewStack(navigation.ScreenSummary),
		notes: notify.NewCollector(),
	}
	logger := a.logger.With().Int("record_id", recordID).Logger()

	deps := editor.Deps{
		Store:      s.store,
		Navigator:  s.nav,
		Notifier:   notify.Multi{notify.NewLog(logger), s.notes},
		Publisher:  a.publisher,
		Metrics:    a.metrics,
		Logger:     logger,
		RecordID:   recordID,
		Vocabulary: vocab,
	}
	if a.cfg.WriteBack {
		deps.Saver = a.source
	}
	s.view = summary.New(a.source, deps)

	s.store.Subscribe(func(rec record.HealthRecord) {
		logger.Debug().
			Int("symptoms", len(rec.Symptoms)).
			Int("consultations", len(rec.MedicalConsultations)).
			Msg("record store updated")
	})
	return s, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("error during shutdown")
		}
	}
	if a.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.provider.Shutdown(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("failed to shut down OpenTelemetry")
		}
	}
}
