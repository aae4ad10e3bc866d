// internal/workers/matching/rank-providers/config.go
package rankproviders

import (
	"time"

	"rfq-dispatch-workers/internal/common/config"
	"rfq-dispatch-workers/internal/matching/eligibility"
)

type Config struct {
	Source           string
	DefaultLimit     int
	Weights          eligibility.Weights
	MinFuzzyTokenLen int
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Source:       config.ProviderSourcePostgres,
		DefaultLimit: 50,
		Weights:      eligibility.DefaultWeights(),
		Timeout:      20 * time.Second,
	}
}

// FromMatching applies the matching section on top of the defaults.
func (c *Config) FromMatching(m config.MatchingConfig) *Config {
	if m.ProviderSource != "" {
		c.Source = m.ProviderSource
	}
	if m.DefaultLimit > 0 {
		c.DefaultLimit = m.DefaultLimit
	}
	if m.Weights != (config.RankingWeights{}) {
		c.Weights = eligibility.Weights{
			ProcessMatch:   m.Weights.ProcessMatch,
			GeoMatch:       m.Weights.GeoMatch,
			KnownContact:   m.Weights.KnownContact,
			VerifiedActive: m.Weights.VerifiedActive,
		}
	}
	c.MinFuzzyTokenLen = m.MinFuzzyTokenLen
	return c
}
