// internal/store/schema.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/models"
)

const schemaCacheKeyPrefix = "rfq:provider-schema:"

// ProviderSchema is what the deployed providers table looks like.
type ProviderSchema struct {
	Table              string                    `json:"table"`
	Columns            []string                  `json:"columns"`
	Availability       models.ColumnAvailability `json:"availability"`
	ContactEmailColumn string                    `json:"contactEmailColumn"`
}

func (s ProviderSchema) Has(column string) bool {
	i := sort.SearchStrings(s.Columns, column)
	return i < len(s.Columns) && s.Columns[i] == column
}

// ContactColumns returns the configured contact columns present in the table.
func (s ProviderSchema) ContactColumns(preferred []string) []string {
	out := make([]string, 0, len(preferred))
	for _, c := range preferred {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// NewProviderSchema derives availability and the contact-email column from
// the column names of a providers table.
func NewProviderSchema(table string, columns []string, contactPreference []string) ProviderSchema {
	seen := make(map[string]bool, len(columns))
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cols = append(cols, c)
	}
	sort.Strings(cols)

	s := ProviderSchema{Table: table, Columns: cols}
	s.Availability = models.ColumnAvailability{
		Processes: s.Has("processes"),
		Materials: s.Has("materials"),
		Geo:       s.Has("country") || s.Has("states"),
	}
	if contact := s.ContactColumns(contactPreference); len(contact) > 0 {
		s.ContactEmailColumn = contact[0]
	}
	return s
}

// SchemaCache keeps probe results in redis so that every job does not hit
// information_schema.
type SchemaCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewSchemaCache(rdb redis.Cmdable, ttl time.Duration) *SchemaCache {
	return &SchemaCache{rdb: rdb, ttl: ttl}
}

func (c *SchemaCache) Get(ctx context.Context, table string) (*ProviderSchema, error) {
	raw, err := c.rdb.Get(ctx, schemaCacheKeyPrefix+table).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("schema cache get: %w", err)
	}
	var s ProviderSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("schema cache decode: %w", err)
	}
	return &s, nil
}

func (c *SchemaCache) Set(ctx context.Context, s ProviderSchema) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, schemaCacheKeyPrefix+s.Table, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("schema cache set: %w", err)
	}
	return nil
}

// SchemaProbe detects which provider columns are migrated in this
// environment.
type SchemaProbe struct {
	db                *sql.DB
	table             string
	contactPreference []string
	cache             *SchemaCache
	logger            logger.Logger
}

const columnsQuery = `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`

// NewSchemaProbe builds a probe. cache may be nil.
func NewSchemaProbe(db *sql.DB, table string, contactPreference []string, cache *SchemaCache, log logger.Logger) *SchemaProbe {
	return &SchemaProbe{
		db:                db,
		table:             table,
		contactPreference: contactPreference,
		cache:             cache,
		logger:            log,
	}
}

func (p *SchemaProbe) Probe(ctx context.Context) (ProviderSchema, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, p.table)
		if err != nil {
			p.logger.Warn("schema cache unavailable", map[string]interface{}{"error": err.Error()})
		} else if cached != nil {
			return *cached, nil
		}
	}

	rows, err := p.db.QueryContext(ctx, columnsQuery, p.table)
	if err != nil {
		return ProviderSchema{}, fmt.Errorf("probe columns of %s: %w", p.table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return ProviderSchema{}, fmt.Errorf("scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return ProviderSchema{}, fmt.Errorf("probe columns of %s: %w", p.table, err)
	}
	if len(columns) == 0 {
		return ProviderSchema{}, fmt.Errorf("probe columns of %s: table not found", p.table)
	}

	schema := NewProviderSchema(p.table, columns, p.contactPreference)
	p.logger.Debug("probed provider schema", map[string]interface{}{
		"table":              p.table,
		"columns":            len(schema.Columns),
		"processes":          schema.Availability.Processes,
		"materials":          schema.Availability.Materials,
		"geo":                schema.Availability.Geo,
		"contactEmailColumn": schema.ContactEmailColumn,
	})

	if p.cache != nil {
		if err := p.cache.Set(ctx, schema); err != nil {
			p.logger.Warn("schema cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return schema, nil
}
