package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/config"
)

func TestInit_DisabledReturnsNoopProviders(t *testing.T) {
	providers, err := Init(config.TelemetryConfig{Enabled: false}, nil)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.tp)
	assert.Nil(t, providers.mp)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestShutdown_NilReceiverIsSafe(t *testing.T) {
	var providers *Providers
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestBuildVersion_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, buildVersion())
}
