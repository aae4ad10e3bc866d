// internal/workers/dispatch/check-dispatch-readiness/config.go
package checkdispatchreadiness

import "time"

type Config struct {
	// FailWhenNotReady throws DISPATCH_NOT_READY instead of completing with
	// isReady=false.
	FailWhenNotReady bool
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
