package retry

import (
	"time"

	"github.com/niels/tinyhttpd/pkg/config"
)

// FromConfig creates retry options from the application configuration
func FromConfig(cfg config.RetryConfig) Options {
	return Options{
		MaxRetries:    cfg.MaxRetries,
		InitialDelay:  time.Duration(cfg.InitialDelay) * time.Millisecond,
		MaxDelay:      time.Duration(cfg.MaxDelay) * time.Millisecond,
		BackoffFactor: cfg.BackoffFactor,
		JitterFactor:  cfg.JitterFactor,
	}
}
