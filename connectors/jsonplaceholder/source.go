package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starx-inc/airbyte/airbytecdk"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/jsoniter"
)

const defaultBaseURL = "https://jsonplaceholder.typicode.com"

const streamUsers = "users"

// SourceJSONPlaceholder syncs the users collection of the JSONPlaceholder demo API.
// It takes no configuration, which makes it handy for wiring and smoke tests of the
// whole sync path.
type SourceJSONPlaceholder struct {
	appbase.Service
	httpClient *http.Client
	baseURL    string
}

func NewSourceJSONPlaceholder(settings *appbase.ConnectorSettings) *SourceJSONPlaceholder {
	return &SourceJSONPlaceholder{
		Service:    appbase.NewServiceBase("source-jsonplaceholder"),
		httpClient: &http.Client{Timeout: settings.HTTPTimeout()},
		baseURL:    defaultBaseURL,
	}
}

func (s *SourceJSONPlaceholder) Spec(_ airbyte.LogTracker) (*airbyte.ConnectorSpecification, error) {
	return &airbyte.ConnectorSpecification{
		DocumentationURL:    "https://jsonplaceholder.typicode.com/guide/",
		SupportsIncremental: false,
		ConnectionSpecification: airbyte.ConnectionSpecification{
			Schema:      "http://json-schema.org/draft-07/schema#",
			Title:       "JSONPlaceholder Source Spec",
			Description: "No configuration required",
			Type:        "object",
			Required:    []airbyte.PropertyName{},
		},
	}, nil
}

// Check fetches the users collection and requires at least one record
func (s *SourceJSONPlaceholder) Check(_ string, _ airbyte.LogTracker) error {
	users, err := s.fetchUsers(context.Background())
	if err != nil {
		return fmt.Errorf("unable to connect to jsonplaceholder api: %v", err)
	}
	if len(users) == 0 {
		return fmt.Errorf("jsonplaceholder api returned no users")
	}
	return nil
}

func (s *SourceJSONPlaceholder) Discover(_ string, _ airbyte.LogTracker) (*airbyte.Catalog, error) {
	return &airbyte.Catalog{Streams: []airbyte.Stream{usersStream()}}, nil
}

func (s *SourceJSONPlaceholder) Read(_ string, _ string, configuredCat *airbyte.ConfiguredCatalog,
	tracker airbyte.MessageTracker) error {
	if _, ok := configuredCat.GetStream(streamUsers, ""); !ok {
		return fmt.Errorf("the %s stream is not configured", streamUsers)
	}
	users, err := s.fetchUsers(context.Background())
	if err != nil {
		return err
	}
	for _, user := range users {
		if err := tracker.Record(user, streamUsers, ""); err != nil {
			return err
		}
	}
	s.Infof("synced %d users", len(users))
	return nil
}

func (s *SourceJSONPlaceholder) fetchUsers(ctx context.Context) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, s.NewError("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.NewError("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, s.NewError("api returned status %d", resp.StatusCode)
	}
	var users []map[string]any
	if err := jsoniter.Unmarshal(body, &users); err != nil {
		return nil, s.NewError("failed to parse response: %v", err)
	}
	return users, nil
}

func usersStream() airbyte.Stream {
	stringProp := airbyte.PropertySpec{PropertyType: airbyte.PropertyType{Type: airbyte.String}}
	return airbyte.Stream{
		Name:                    streamUsers,
		SupportedSyncModes:      []airbyte.SyncMode{airbyte.SyncModeFullRefresh},
		SourceDefinedPrimaryKey: [][]string{{"id"}},
		JSONSchema: airbyte.Properties{
			Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
				"id":       {PropertyType: airbyte.PropertyType{Type: airbyte.Integer}},
				"name":     stringProp,
				"username": stringProp,
				"email":    stringProp,
				"phone":    stringProp,
				"website":  stringProp,
				"address": {
					PropertyType: airbyte.PropertyType{Type: airbyte.Object},
					Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
						"street":  stringProp,
						"suite":   stringProp,
						"city":    stringProp,
						"zipcode": stringProp,
						"geo": {
							PropertyType: airbyte.PropertyType{Type: airbyte.Object},
							Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
								"lat": stringProp,
								"lng": stringProp,
							},
						},
					},
				},
				"company": {
					PropertyType: airbyte.PropertyType{Type: airbyte.Object},
					Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
						"name":        stringProp,
						"catchPhrase": stringProp,
						"bs":          stringProp,
					},
				},
			},
		},
	}
}
