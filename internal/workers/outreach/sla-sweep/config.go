// internal/workers/outreach/sla-sweep/config.go
package slasweep

import (
	"time"

	"rfq-dispatch-workers/internal/common/config"
	"rfq-dispatch-workers/internal/outreach/sla"
)

type Config struct {
	SLA         sla.Config
	Concurrency int
	Limit       int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SLA:         sla.DefaultConfig(),
		Concurrency: 4,
		Limit:       500,
		Timeout:     2 * time.Minute,
	}
}

// FromOutreach applies the outreach section on top of the defaults.
func (c *Config) FromOutreach(o config.OutreachConfig) *Config {
	if o.SLA.QueuedMaxHours > 0 {
		c.SLA.QueuedMaxHours = o.SLA.QueuedMaxHours
	}
	if o.SLA.SentNoReplyMaxHours > 0 {
		c.SLA.SentNoReplyMaxHours = o.SLA.SentNoReplyMaxHours
	}
	if o.SLA.ErrorAlwaysNeedsAction != nil {
		c.SLA.ErrorAlwaysNeedsAction = *o.SLA.ErrorAlwaysNeedsAction
	}
	if o.Sweep.Concurrency > 0 {
		c.Concurrency = o.Sweep.Concurrency
	}
	if o.Sweep.Limit > 0 {
		c.Limit = o.Sweep.Limit
	}
	return c
}
