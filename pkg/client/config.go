package client

import "time"

// Config holds settings for the oppboard API client.
type Config struct {
	// BaseURL is the HTTP endpoint of the API, e.g. http://localhost:8080
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Token is the bearer token sent on authenticated calls
	Token string `yaml:"token" json:"token"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Retries is number of retry attempts for failed reads; writes are never retried
	Retries int `yaml:"retries" json:"retries"`
	// Backoff is the base backoff between retries
	Backoff time.Duration `yaml:"backoff" json:"backoff"`
	// CircuitFailureThreshold opens circuit after this many consecutive failures
	CircuitFailureThreshold int `yaml:"circuit_failure_threshold" json:"circuit_failure_threshold"`
	// CircuitReset is the duration after which the circuit attempts to half-open
	CircuitReset time.Duration `yaml:"circuit_reset" json:"circuit_reset"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:                 "http://localhost:8080",
		Timeout:                 15 * time.Second,
		Retries:                 2,
		Backoff:                 300 * time.Millisecond,
		CircuitFailureThreshold: 5,
		CircuitReset:            30 * time.Second,
	}
}
