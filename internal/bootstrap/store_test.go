package bootstrap

import (
	"testing"

	"talentscout-be/internal/config"
	"talentscout-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoryFactory_MemoryOnlyOutsideProduction(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Environment: "development"}}
	factory, err := NewRepositoryFactory(nil, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, factory)

	cfg.App.Environment = "production"
	factory, err = NewRepositoryFactory(nil, cfg, logger.NewNopLogger())
	assert.ErrorIs(t, err, ErrDatabaseRequired)
	assert.Nil(t, factory)
}
