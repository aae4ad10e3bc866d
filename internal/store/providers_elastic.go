// internal/store/providers_elastic.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"rfq-dispatch-workers/internal/models"
)

// ElasticProviderDirectory reads providers from a search index. Matching
// documents score higher; the query never excludes a provider.
type ElasticProviderDirectory struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticProviderDirectory(es *elasticsearch.Client, index string) *ElasticProviderDirectory {
	return &ElasticProviderDirectory{es: es, index: index}
}

type providerDocument struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Processes          []string          `json:"processes"`
	Materials          []string          `json:"materials"`
	Country            string            `json:"country"`
	States             []string          `json:"states"`
	IsActive           bool              `json:"is_active"`
	VerificationStatus string            `json:"verification_status"`
	Contact            map[string]string `json:"contact"`
	ContactedAt        *time.Time        `json:"contacted_at"`
	DispatchMode       string            `json:"dispatch_mode"`
	QuotingMode        string            `json:"quoting_mode"`
	RFQURL             string            `json:"rfq_url"`
}

func (d providerDocument) toRecord(id string) models.ProviderRecord {
	if d.ID == "" {
		d.ID = id
	}
	status := models.VerificationUnverified
	if strings.EqualFold(d.VerificationStatus, string(models.VerificationVerified)) {
		status = models.VerificationVerified
	}
	return models.ProviderRecord{
		ID:                 d.ID,
		Name:               d.Name,
		Processes:          d.Processes,
		Materials:          d.Materials,
		Country:            d.Country,
		States:             d.States,
		IsActive:           d.IsActive,
		VerificationStatus: status,
		Contact:            d.Contact,
		ContactedAt:        d.ContactedAt,
		DispatchMode:       d.DispatchMode,
		QuotingMode:        d.QuotingMode,
		RFQURL:             d.RFQURL,
		Availability:       models.AllColumnsAvailable(),
	}
}

func buildDirectoryQuery(c models.EligibilityCriteria, size int) map[string]interface{} {
	should := []interface{}{}
	if c.Process != nil {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{"processes": map[string]interface{}{"query": *c.Process, "boost": 4}},
		})
	}
	if c.ShipToState != nil {
		should = append(should, map[string]interface{}{
			"term": map[string]interface{}{"states": map[string]interface{}{"value": *c.ShipToState, "boost": 3}},
		})
	}
	if c.ShipToCountry != nil {
		should = append(should, map[string]interface{}{
			"term": map[string]interface{}{"country": map[string]interface{}{"value": *c.ShipToCountry, "boost": 3}},
		})
	}
	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
				"should": should,
			},
		},
		"sort": []interface{}{"_score", map[string]interface{}{"id": "asc"}},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string           `json:"_id"`
			Source providerDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (d *ElasticProviderDirectory) ListProviders(ctx context.Context, q ProviderQuery) ([]models.ProviderRecord, error) {
	size := q.Limit
	if size <= 0 {
		size = defaultProviderLimit
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(buildDirectoryQuery(q.Criteria, size)); err != nil {
		return nil, fmt.Errorf("encode provider query: %w", err)
	}

	res, err := d.es.Search(
		d.es.Search.WithContext(ctx),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("search providers: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search providers: %s: %s", res.Status(), strings.TrimSpace(string(msg)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode provider hits: %w", err)
	}

	out := make([]models.ProviderRecord, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.toRecord(h.ID))
	}
	return out, nil
}
