package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	appName    = "AIE Portal"
	apiName    = "AIE Portal API"
	apiVersion = "1.0.0"
)

// publicFeatures are the feature flags clients use to show or hide sections.
var publicFeatures = []string{
	"timetable",
	"assignments",
	"resources",
	"notifications",
	"friends",
	"calendar",
	"projects",
	"ideas",
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// VersionInfo identifies the running API.
type VersionInfo struct {
	Version string `json:"version"`
	APIName string `json:"api_name"`
}

// PublicConfig is the client bootstrap configuration.
type PublicConfig struct {
	AppName     string   `json:"app_name"`
	Version     string   `json:"version"`
	Features    []string `json:"features"`
	MaxFileSize int64    `json:"max_file_size"`
}

// HealthStatus is the health payload. Database is "connected" or "disconnected".
type HealthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfigurationService serves version, client configuration and health.
type ConfigurationService struct {
	database    HealthCheck
	maxFileSize int64
	logger      *zap.Logger
	now         func() time.Time
}

// NewConfigurationService constructs a ConfigurationService. database may be nil.
func NewConfigurationService(database HealthCheck, maxFileSize int64, logger *zap.Logger) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{database: database, maxFileSize: maxFileSize, logger: logger, now: time.Now}
}

func (s *ConfigurationService) Version() VersionInfo {
	return VersionInfo{Version: apiVersion, APIName: apiName}
}

func (s *ConfigurationService) PublicConfig() PublicConfig {
	features := make([]string, len(publicFeatures))
	copy(features, publicFeatures)
	return PublicConfig{AppName: appName, Version: apiVersion, Features: features, MaxFileSize: s.maxFileSize}
}

// Health pings the database. The API itself is healthy whenever it can answer.
func (s *ConfigurationService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "healthy", Database: "connected", Timestamp: s.now().UTC()}
	if s.database == nil {
		status.Database = "disconnected"
		return status
	}
	if err := s.database(ctx); err != nil {
		s.logger.Warn("database health check failed", zap.Error(err))
		status.Database = "disconnected"
	}
	return status
}

// Ready reports whether the service can take traffic.
func (s *ConfigurationService) Ready(ctx context.Context) bool {
	return s.database != nil && s.database(ctx) == nil
}
