// internal/workers/dispatch/deliver-email-dispatch/config.go
package deliveremaildispatch

import "time"

type Config struct {
	FromEmail string
	AWSRegion string
	Timeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
