package api

import "time"

type Configuration struct {
	Env     string
	AppName string
	Port    string
	// comma separated list of origins allowed to call the api from a browser
	CorsAllowedOrigins  string
	RequestLoggingLevel string
	DefaultTimeout      time.Duration
	// resolutions may wait on the rate limiter and on retried calls to the enrichment service
	ResolveTimeout time.Duration
}
