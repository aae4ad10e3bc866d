// internal/workers/outreach/compute-quote-needs-action/config.go
package computequoteneedsaction

import (
	"time"

	"rfq-dispatch-workers/internal/common/config"
	"rfq-dispatch-workers/internal/outreach/sla"
)

type Config struct {
	SLA     sla.Config
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SLA:     sla.DefaultConfig(),
		Timeout: 15 * time.Second,
	}
}

// FromOutreach applies the outreach.sla thresholds on top of the defaults.
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
	return c
}
