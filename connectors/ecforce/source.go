package main

import (
	"context"
	"fmt"
	"time"

	"github.com/starx-inc/airbyte/airbytecdk"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/utils"
)

// Config is the source configuration form
type Config struct {
	// Domain is the shop's admin domain, e.g. example.ec-force.com
	Domain   string `json:"domain"`
	APIToken string `json:"api_token"`
	// StartDate and EndDate bound the updated_at window, format 2006-01-02.
	// EndDate defaults to today.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// IncludeNotes enables the customer_notes stream
	IncludeNotes bool `json:"include_notes"`
}

func (c *Config) validate() error {
	if c.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if c.APIToken == "" {
		return fmt.Errorf("api_token is required")
	}
	if c.StartDate == "" {
		return fmt.Errorf("start_date is required")
	}
	if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
		return fmt.Errorf("start_date must be formatted as 2006-01-02: %v", err)
	}
	if c.EndDate != "" {
		if _, err := time.Parse("2006-01-02", c.EndDate); err != nil {
			return fmt.Errorf("end_date must be formatted as 2006-01-02: %v", err)
		}
	}
	return nil
}

const (
	streamCustomers     = "customers"
	streamCustomerNotes = "customer_notes"
)

// SourceEcforce syncs customers and their notes from the ecforce admin API
type SourceEcforce struct {
	appbase.Service
	httpTimeout time.Duration
}

func NewSourceEcforce(settings *appbase.ConnectorSettings) *SourceEcforce {
	return &SourceEcforce{
		Service:     appbase.NewServiceBase("source-ecforce"),
		httpTimeout: settings.HTTPTimeout(),
	}
}

func (s *SourceEcforce) Spec(_ airbyte.LogTracker) (*airbyte.ConnectorSpecification, error) {
	return sourceSpec(), nil
}

// Check fetches the first customers page: it exercises the credentials, the domain and
// the date window in one request
func (s *SourceEcforce) Check(srcCfgPath string, _ airbyte.LogTracker) error {
	cfg, err := s.loadConfig(srcCfgPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.httpTimeout)
	defer cancel()
	if _, err := newClient(cfg, s.httpTimeout).FetchCustomersPage(ctx, 1); err != nil {
		return fmt.Errorf("unable to connect to ecforce api: %v", err)
	}
	return nil
}

func (s *SourceEcforce) Discover(srcCfgPath string, _ airbyte.LogTracker) (*airbyte.Catalog, error) {
	cfg, err := s.loadConfig(srcCfgPath)
	if err != nil {
		return nil, err
	}
	streams := []airbyte.Stream{customersStream()}
	if cfg.IncludeNotes {
		streams = append(streams, customerNotesStream())
	}
	return &airbyte.Catalog{Streams: streams}, nil
}

// Read pages through the customers endpoint once and fans records out to whichever of
// the two streams the catalog selected. Notes ride along on the same API responses so a
// second pass would double the request volume for nothing.
func (s *SourceEcforce) Read(srcCfgPath string, _ string, configuredCat *airbyte.ConfiguredCatalog,
	tracker airbyte.MessageTracker) error {
	cfg, err := s.loadConfig(srcCfgPath)
	if err != nil {
		return err
	}
	_, wantCustomers := configuredCat.GetStream(streamCustomers, "")
	_, wantNotes := configuredCat.GetStream(streamCustomerNotes, "")
	if !wantCustomers && !wantNotes {
		return fmt.Errorf("no supported streams configured")
	}

	client := newClient(cfg, s.httpTimeout)
	ctx := context.Background()
	page := 1
	for {
		result, err := client.FetchCustomersPage(ctx, page)
		if err != nil {
			return err
		}
		if err := s.emitPage(result, wantCustomers, wantNotes, tracker); err != nil {
			return err
		}
		if !result.HasMore() {
			break
		}
		page = result.Meta.Page + 1
		time.Sleep(pagePause)
	}
	return nil
}

func (s *SourceEcforce) emitPage(page *customersPage, wantCustomers, wantNotes bool,
	tracker airbyte.MessageTracker) error {
	notesByID := map[string]resource{}
	if wantNotes {
		for _, item := range page.Included {
			if item.Type == "note" {
				notesByID[item.ID] = item
			}
		}
	}
	for _, customer := range page.Data {
		if wantCustomers {
			if err := tracker.Record(customerRecord(customer), streamCustomers, ""); err != nil {
				return err
			}
		}
		if !wantNotes {
			continue
		}
		for _, ref := range customer.Relationships["notes"].Data {
			note, ok := notesByID[ref.ID]
			if !ok {
				continue
			}
			if err := tracker.Record(noteRecord(customer.ID, note), streamCustomerNotes, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// customerRecord flattens the JSON:API resource and converts datetime attributes
func customerRecord(customer resource) map[string]any {
	record := map[string]any{
		"id":   customer.ID,
		"type": customer.Type,
	}
	for key, value := range customer.Attributes {
		record[key] = value
	}
	for _, field := range []string{"created_at", "updated_at", "deleted_at", "accepts_marketing_updated_at"} {
		if value, ok := record[field].(string); ok {
			record[field] = ConvertDatetime(value)
		}
	}
	return record
}

func noteRecord(customerID string, note resource) map[string]any {
	record := map[string]any{
		"id":          note.ID,
		"customer_id": customerID,
	}
	for key, value := range note.Attributes {
		record[key] = value
	}
	for _, field := range []string{"created_at", "updated_at", "operated_at"} {
		if value, ok := record[field].(string); ok {
			record[field] = ConvertDatetime(value)
		}
	}
	return record
}

// ConvertDatetime rewrites the ecforce datetime format "2025/07/09 13:03:03" to
// ISO 8601. Unparsable values pass through unchanged.
func ConvertDatetime(value string) string {
	if value == "" {
		return value
	}
	parsed, err := time.Parse("2006/01/02 15:04:05", value)
	if err != nil {
		return value
	}
	return parsed.Format("2006-01-02T15:04:05")
}

func (s *SourceEcforce) loadConfig(srcCfgPath string) (*Config, error) {
	cfg := &Config{}
	if err := airbyte.UnmarshalFromPath(srcCfgPath, cfg); err != nil {
		return nil, s.NewError("failed to read config: %v", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, s.NewError("invalid configuration: %v", err)
	}
	cfg.EndDate = utils.NvlString(cfg.EndDate, time.Now().Format("2006-01-02"))
	return cfg, nil
}
