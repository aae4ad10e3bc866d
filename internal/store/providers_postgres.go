// internal/store/providers_postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"rfq-dispatch-workers/internal/models"
)

const defaultProviderLimit = 50

// PostgresProviderStore selects only the columns the probe found, so a
// partially migrated table still yields providers with honest availability.
type PostgresProviderStore struct {
	db                *sql.DB
	probe             *SchemaProbe
	contactPreference []string
}

func NewPostgresProviderStore(db *sql.DB, probe *SchemaProbe, contactPreference []string) *PostgresProviderStore {
	return &PostgresProviderStore{db: db, probe: probe, contactPreference: contactPreference}
}

// providerColumn binds one optional column to a record field.
type providerColumn struct {
	name string
	bind func(p *models.ProviderRecord) (dest interface{}, apply func())
}

func stringColumn(name string, set func(p *models.ProviderRecord, v string)) providerColumn {
	return providerColumn{name: name, bind: func(p *models.ProviderRecord) (interface{}, func()) {
		var v sql.NullString
		return &v, func() { set(p, strings.TrimSpace(v.String)) }
	}}
}

func arrayColumn(name string, set func(p *models.ProviderRecord, v []string)) providerColumn {
	return providerColumn{name: name, bind: func(p *models.ProviderRecord) (interface{}, func()) {
		var v pq.StringArray
		return &v, func() { set(p, []string(v)) }
	}}
}

var optionalProviderColumns = []providerColumn{
	arrayColumn("processes", func(p *models.ProviderRecord, v []string) { p.Processes = v }),
	arrayColumn("materials", func(p *models.ProviderRecord, v []string) { p.Materials = v }),
	stringColumn("country", func(p *models.ProviderRecord, v string) { p.Country = v }),
	arrayColumn("states", func(p *models.ProviderRecord, v []string) { p.States = v }),
	{name: "is_active", bind: func(p *models.ProviderRecord) (interface{}, func()) {
		var v sql.NullBool
		return &v, func() { p.IsActive = v.Valid && v.Bool }
	}},
	stringColumn("verification_status", func(p *models.ProviderRecord, v string) {
		p.VerificationStatus = models.VerificationUnverified
		if strings.EqualFold(v, string(models.VerificationVerified)) {
			p.VerificationStatus = models.VerificationVerified
		}
	}),
	{name: "contacted_at", bind: func(p *models.ProviderRecord) (interface{}, func()) {
		var v sql.NullTime
		return &v, func() {
			if v.Valid {
				t := v.Time.UTC()
				p.ContactedAt = &t
			}
		}
	}},
	stringColumn("dispatch_mode", func(p *models.ProviderRecord, v string) { p.DispatchMode = v }),
	stringColumn("quoting_mode", func(p *models.ProviderRecord, v string) { p.QuotingMode = v }),
	stringColumn("rfq_url", func(p *models.ProviderRecord, v string) { p.RFQURL = v }),
}

func (s *PostgresProviderStore) columnsFor(schema ProviderSchema) []providerColumn {
	cols := make([]providerColumn, 0, len(optionalProviderColumns)+len(s.contactPreference))
	for _, c := range optionalProviderColumns {
		if schema.Has(c.name) {
			cols = append(cols, c)
		}
	}
	for _, name := range schema.ContactColumns(s.contactPreference) {
		column := name
		cols = append(cols, stringColumn(column, func(p *models.ProviderRecord, v string) {
			if v != "" {
				p.Contact[column] = v
			}
		}))
	}
	return cols
}

func buildProviderQuery(table string, cols []providerColumn) string {
	names := make([]string, 0, len(cols)+2)
	names = append(names, "id", "name")
	for _, c := range cols {
		names = append(names, pq.QuoteIdentifier(c.name))
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT $1",
		strings.Join(names, ", "), pq.QuoteIdentifier(table))
}

func (s *PostgresProviderStore) ListProviders(ctx context.Context, q ProviderQuery) ([]models.ProviderRecord, error) {
	schema, err := s.probe.Probe(ctx)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultProviderLimit
	}

	cols := s.columnsFor(schema)
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, buildProviderQuery(schema.Table, cols), limit)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()

	var providers []models.ProviderRecord
	for rows.Next() {
		p := models.ProviderRecord{
			Availability:       schema.Availability,
			VerificationStatus: models.VerificationUnverified,
			Contact:            map[string]string{},
		}
		dests := make([]interface{}, 0, len(cols)+2)
		dests = append(dests, &p.ID, &p.Name)
		applies := make([]func(), 0, len(cols))
		for _, c := range cols {
			dest, apply := c.bind(&p)
			dests = append(dests, dest)
			applies = append(applies, apply)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		for _, apply := range applies {
			apply()
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}

	s.probe.logger.Debug("loaded providers", map[string]interface{}{
		"count":      len(providers),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return providers, nil
}
