// internal/workers/dispatch/build-outbound-dispatch/config.go
package buildoutbounddispatch

import "time"

type Config struct {
	DefaultSubmissionURL string
	EnableAPIAdapter     bool
	Timeout              time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
