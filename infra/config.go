package infra

import (
	"fmt"
	"time"
)

type PgConfig struct {
	ConnectionString    string
	Database            string
	DbConnectWithSocket bool
	Hostname            string
	Password            string
	Port                string
	User                string
	MaxPoolConnections  int
	SslMode             string
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	connectionString := fmt.Sprintf("host=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.User, config.Password, config.Database, config.SslMode)
	if !config.DbConnectWithSocket {
		// Cloud Run connects to the DB through a proxy and a unix socket, so the port is only needed locally
		connectionString = fmt.Sprintf("%s port=%s", connectionString, config.Port)
	}
	return connectionString
}

type EnrichmentConfiguration struct {
	Host           string
	ApiKey         string
	RateLimit      float64
	RequestTimeout time.Duration
}

type SharedCacheConfiguration struct {
	// Base url of the shared cache backend api.
	Url            string
	RequestTimeout time.Duration
}

type LocalCacheConfiguration struct {
	// "memory" or "sqlite"
	Driver string
	// Path of the sqlite file, when Driver is "sqlite"
	Path string
	// Maximum number of bytes of stored values, 0 means unbounded
	CapacityBytes int
}

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	SamplingRate    float64
}
