// internal/store/outreach_postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rfq-dispatch-workers/internal/models"
)

const (
	destinationsQuery = `SELECT id, quote_id, provider_id, status, created_at, sent_at, last_status_at,
       has_offer, dispatch_mode, email_override, rfq_url_override
FROM quote_destinations
WHERE quote_id = $1
ORDER BY id`

	offersQuery = `SELECT id, quote_id, provider_id, received_at
FROM quote_offers
WHERE quote_id = $1
ORDER BY id`

	openQuotesQuery = `SELECT DISTINCT quote_id
FROM quote_destinations
WHERE status = ANY($1) AND quote_id > $2
ORDER BY quote_id
LIMIT $3`
)

// OpenStatuses are destination states the SLA engine may still flag.
var OpenStatuses = []string{
	string(models.StatusQueued),
	string(models.StatusSent),
	string(models.StatusSubmitted),
	string(models.StatusViewed),
	string(models.StatusError),
}

type PostgresOutreachStore struct {
	db *sql.DB
}

func NewPostgresOutreachStore(db *sql.DB) *PostgresOutreachStore {
	return &PostgresOutreachStore{db: db}
}

func (s *PostgresOutreachStore) ListDestinations(ctx context.Context, quoteID string) ([]models.DestinationRecord, error) {
	rows, err := s.db.QueryContext(ctx, destinationsQuery, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query destinations for %s: %w", quoteID, err)
	}
	defer rows.Close()

	var out []models.DestinationRecord
	for rows.Next() {
		var (
			d                                   models.DestinationRecord
			status                              string
			createdAt, sentAt, lastStatusAt     sql.NullTime
			hasOffer                            sql.NullBool
			mode, emailOverride, rfqURLOverride sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.QuoteID, &d.ProviderID, &status, &createdAt, &sentAt, &lastStatusAt,
			&hasOffer, &mode, &emailOverride, &rfqURLOverride); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		d.Status = models.NormalizeDestinationStatus(status)
		d.CreatedAt = timePtr(createdAt)
		d.SentAt = timePtr(sentAt)
		d.LastStatusAt = timePtr(lastStatusAt)
		d.HasOffer = hasOffer.Valid && hasOffer.Bool
		d.DispatchMode = mode.String
		d.EmailOverride = emailOverride.String
		d.RFQURLOverride = rfqURLOverride.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destinations: %w", err)
	}
	return out, nil
}

func (s *PostgresOutreachStore) ListOffers(ctx context.Context, quoteID string) ([]models.Offer, error) {
	rows, err := s.db.QueryContext(ctx, offersQuery, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query offers for %s: %w", quoteID, err)
	}
	defer rows.Close()

	var out []models.Offer
	for rows.Next() {
		var (
			o          models.Offer
			receivedAt sql.NullTime
		)
		if err := rows.Scan(&o.ID, &o.QuoteID, &o.ProviderID, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		o.ReceivedAt = timePtr(receivedAt)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return out, nil
}

// ListOpenQuoteIDs returns one page of requests that still have a
// destination in an open status, ordered by id and starting after the
// cursor. An empty cursor starts from the first request.
func (s *PostgresOutreachStore) ListOpenQuoteIDs(ctx context.Context, after string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx, openQuotesQuery, pq.Array(OpenStatuses), after, limit)
	if err != nil {
		return nil, fmt.Errorf("query open quotes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quote id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
