// Package store reads providers, destinations and offers from the record
// stores and hands plain models to the core packages.
package store

import (
	"context"

	"rfq-dispatch-workers/internal/models"
)

// ProviderQuery narrows a provider read. Criteria are a relevance hint for
// directories that can score; every source still returns non-matching
// providers so the ranker can report them as ineligible.
type ProviderQuery struct {
	Criteria models.EligibilityCriteria
	Limit    int
}

type ProviderSource interface {
	ListProviders(ctx context.Context, q ProviderQuery) ([]models.ProviderRecord, error)
}

type OutreachSource interface {
	ListDestinations(ctx context.Context, quoteID string) ([]models.DestinationRecord, error)
	ListOffers(ctx context.Context, quoteID string) ([]models.Offer, error)
	ListOpenQuoteIDs(ctx context.Context, after string, limit int) ([]string, error)
}
