package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationPublicConfig(t *testing.T) {
	svc := NewConfigurationService(nil, 10485760, nil)

	cfg := svc.PublicConfig()
	assert.Equal(t, "AIE Portal", cfg.AppName)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, int64(10485760), cfg.MaxFileSize)
	assert.Contains(t, cfg.Features, "timetable")

	cfg.Features[0] = "mutated"
	assert.Equal(t, "timetable", svc.PublicConfig().Features[0])

	assert.Equal(t, VersionInfo{Version: "1.0.0", APIName: "AIE Portal API"}, svc.Version())
}

func TestConfigurationHealthReportsDatabase(t *testing.T) {
	up := NewConfigurationService(func(context.Context) error { return nil }, 0, nil)
	assert.Equal(t, "connected", up.Health(context.Background()).Database)
	assert.True(t, up.Ready(context.Background()))

	down := NewConfigurationService(func(context.Context) error { return errors.New("refused") }, 0, nil)
	health := down.Health(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "disconnected", health.Database)
	assert.False(t, down.Ready(context.Background()))
}
