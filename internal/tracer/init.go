package tracer

import (
	"context"
	"log"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const defaultServiceName = "projectmeats-licensing"

// Settings controls span export for the licensing API.
type Settings struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

// SettingsFromEnv reads OTEL_ENABLED, OTEL_EXPORTER_OTLP_ENDPOINT,
// OTEL_SERVICE_NAME and OTEL_TRACES_SAMPLER_ARG.
func SettingsFromEnv() Settings {
	s := Settings{
		Enabled:     os.Getenv("OTEL_ENABLED") == "true",
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName: os.Getenv("OTEL_SERVICE_NAME"),
		SampleRatio: 1,
	}
	if s.Endpoint == "" {
		s.Endpoint = "localhost:4318"
	}
	if s.ServiceName == "" {
		s.ServiceName = defaultServiceName
	}
	if raw := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); raw != "" {
		if ratio, err := strconv.ParseFloat(raw, 64); err == nil && ratio >= 0 && ratio <= 1 {
			s.SampleRatio = ratio
		}
	}
	return s
}

// InitTracer installs an OTLP HTTP tracer provider when tracing is enabled in
// the environment. The returned func flushes pending spans.
func InitTracer() func(context.Context) error {
	return Init(SettingsFromEnv())
}

func Init(s Settings) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !s.Enabled {
		log.Printf("[INFO] Tracing disabled")
		return noop
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(s.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Printf("[WARN] Tracing disabled, OTLP exporter failed: %v", err)
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.SampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(s.ServiceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Printf("[INFO] Tracing to %s as %s (sample ratio %.2f)", s.Endpoint, s.ServiceName, s.SampleRatio)

	return tp.Shutdown
}
