package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const exportTimeout = 5 * time.Second

// Config holds OpenTelemetry settings. It is filled in by the config package.
type Config struct {
	Enabled          bool
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
	Environment      string
	OTLPEndpoint     string
	// TracesSampler is always_on, always_off, traceidratio or
	// traceidratio:<fraction>. Each may be prefixed with parentbased_.
	TracesSampler   string
	MetricsInterval time.Duration
}

// Provider owns the SDK providers installed as globals.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// InitProvider installs the OTLP tracer and meter providers. Exporter
// failures are logged and the process continues without that signal; a
// disabled config installs nothing.
func InitProvider(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{}
	if !cfg.Enabled {
		log.Debug().Msg("OpenTelemetry disabled")
		return p, nil
	}

	sampler, err := newSampler(cfg.TracesSampler)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceNamespace(cfg.ServiceNamespace),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	log.Info().Str("endpoint", cfg.OTLPEndpoint).Str("sampler", cfg.TracesSampler).Msg("initializing OpenTelemetry")

	if tp, err := newTracerProvider(ctx, cfg, res, sampler); err != nil {
		log.Warn().Err(err).Msg("continuing without distributed tracing")
	} else {
		p.TracerProvider = tp
		otel.SetTracerProvider(tp)
	}

	if mp, err := newMeterProvider(ctx, cfg, res); err != nil {
		log.Warn().Err(err).Msg("continuing without metrics export")
	} else {
		p.MeterProvider = mp
		otel.SetMeterProvider(mp)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

// newSampler parses the TracesSampler setting. Empty means always_on.
func newSampler(name string) (trace.Sampler, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	parentBased := strings.HasPrefix(name, "parentbased_")
	name = strings.TrimPrefix(name, "parentbased_")

	var sampler trace.Sampler
	switch {
	case name == "" || name == "always_on":
		sampler = trace.AlwaysSample()
	case name == "always_off":
		sampler = trace.NeverSample()
	case name == "traceidratio":
		sampler = trace.TraceIDRatioBased(0.1)
	case strings.HasPrefix(name, "traceidratio:"):
		ratio, err := strconv.ParseFloat(strings.TrimPrefix(name, "traceidratio:"), 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("invalid trace id ratio in sampler %q", name)
		}
		sampler = trace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("unknown traces sampler %q", name)
	}

	if parentBased {
		sampler = trace.ParentBased(sampler)
	}
	return sampler, nil
}

func dialOptions() []grpc.DialOption {
	return []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource, sampler trace.Sampler) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithDialOption(dialOptions()...),
		otlptracegrpc.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(sampler),
		trace.WithBatcher(exporter, trace.WithBatchTimeout(exportTimeout)),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithDialOption(dialOptions()...),
		otlpmetricgrpc.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
	), nil
}

// Shutdown flushes and stops whichever providers were installed.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.TracerProvider == nil && p.MeterProvider == nil {
		return nil
	}
	log.Info().Msg("shutting down OpenTelemetry providers")

	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
