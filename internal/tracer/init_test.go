package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Settings
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: Settings{Endpoint: "localhost:4318", ServiceName: defaultServiceName, SampleRatio: 1},
		},
		{
			name: "explicit",
			env: map[string]string{
				"OTEL_ENABLED":                "true",
				"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
				"OTEL_SERVICE_NAME":           "licensing-staging",
				"OTEL_TRACES_SAMPLER_ARG":     "0.25",
			},
			want: Settings{Enabled: true, Endpoint: "collector:4318", ServiceName: "licensing-staging", SampleRatio: 0.25},
		},
		{
			name: "ratio out of range is ignored",
			env:  map[string]string{"OTEL_TRACES_SAMPLER_ARG": "2"},
			want: Settings{Endpoint: "localhost:4318", ServiceName: defaultServiceName, SampleRatio: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG"} {
				t.Setenv(key, tt.env[key])
			}
			assert.Equal(t, tt.want, SettingsFromEnv())
		})
	}
}

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown := Init(Settings{Enabled: false})
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
