package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starx-inc/airbyte/airbytecdk"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersPageBody = `{
	"data": [
		{
			"id": "101",
			"type": "customer",
			"attributes": {
				"name": "Yamada Taro",
				"email": "taro@example.com",
				"created_at": "2025/07/09 13:03:03",
				"updated_at": "2025/07/10 08:00:00"
			},
			"relationships": {
				"notes": {"data": [{"id": "9001", "type": "note"}]}
			}
		},
		{
			"id": "102",
			"type": "customer",
			"attributes": {
				"name": "Sato Hanako",
				"email": "hanako@example.com",
				"updated_at": "not a date"
			},
			"relationships": {}
		}
	],
	"included": [
		{
			"id": "9001",
			"type": "note",
			"attributes": {
				"content": "called about the order",
				"operated_at": "2025/07/09 14:00:00"
			}
		}
	],
	"meta": {"page": 1, "total_pages": 3}
}`

func testConfig() *Config {
	return &Config{
		Domain:       "example.ec-force.com",
		APIToken:     "token-123",
		StartDate:    "2025-07-01",
		EndDate:      "2025-07-31",
		IncludeNotes: true,
	}
}

func TestConvertDatetime(t *testing.T) {
	assert.Equal(t, "2025-07-09T13:03:03", ConvertDatetime("2025/07/09 13:03:03"))
	assert.Equal(t, "", ConvertDatetime(""))
	// unparsable values pass through
	assert.Equal(t, "yesterday", ConvertDatetime("yesterday"))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, testConfig().validate())

	missingToken := testConfig()
	missingToken.APIToken = ""
	require.Error(t, missingToken.validate())

	badDate := testConfig()
	badDate.StartDate = "07/01/2025"
	require.Error(t, badDate.validate())

	noEndDate := testConfig()
	noEndDate.EndDate = ""
	require.NoError(t, noEndDate.validate())
}

func TestFetchCustomersPage(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for key, values := range r.URL.Query() {
			gotQuery[key] = values[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customersPageBody))
	}))
	defer server.Close()

	c := newClient(testConfig(), time.Minute)
	c.baseURL = server.URL

	page, err := c.FetchCustomersPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "101", page.Data[0].ID)
	assert.True(t, page.HasMore())

	assert.Equal(t, "Token token=token-123", gotAuth)
	assert.Equal(t, "100", gotQuery["per"])
	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "updated_at,id", gotQuery["sort"])
	assert.Equal(t, "0", gotQuery["lighter"])
	assert.Equal(t, "notes", gotQuery["include"])
	assert.Equal(t, "2025-07-01 00:00:00", gotQuery["q[updated_at_gteq]"])
	assert.Equal(t, "2025-07-31 23:59:59", gotQuery["q[updated_at_lt]"])
}

func TestFetchCustomersPageErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer server.Close()

	c := newClient(testConfig(), time.Minute)
	c.baseURL = server.URL

	_, err := c.FetchCustomersPage(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

type capturedRecord struct {
	stream string
	data   map[string]any
}

func captureTracker(records *[]capturedRecord) airbyte.MessageTracker {
	return airbyte.MessageTracker{
		Record: func(v any, streamName string, _ string) error {
			*records = append(*records, capturedRecord{stream: streamName, data: v.(map[string]any)})
			return nil
		},
	}
}

func fetchTestPage(t *testing.T) *customersPage {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(customersPageBody))
	}))
	defer server.Close()
	c := newClient(testConfig(), time.Minute)
	c.baseURL = server.URL
	page, err := c.FetchCustomersPage(context.Background(), 1)
	require.NoError(t, err)
	return page
}

func TestEmitPageCustomers(t *testing.T) {
	src := NewSourceEcforce(&appbase.ConnectorSettings{HTTPTimeoutSec: 60})
	var records []capturedRecord

	require.NoError(t, src.emitPage(fetchTestPage(t), true, false, captureTracker(&records)))
	require.Len(t, records, 2)
	assert.Equal(t, streamCustomers, records[0].stream)
	assert.Equal(t, "101", records[0].data["id"])
	assert.Equal(t, "customer", records[0].data["type"])
	assert.Equal(t, "Yamada Taro", records[0].data["name"])
	// datetimes converted to ISO 8601
	assert.Equal(t, "2025-07-09T13:03:03", records[0].data["created_at"])
	assert.Equal(t, "2025-07-10T08:00:00", records[0].data["updated_at"])
	// unparsable datetime passes through
	assert.Equal(t, "not a date", records[1].data["updated_at"])
}

func TestEmitPageNotes(t *testing.T) {
	src := NewSourceEcforce(&appbase.ConnectorSettings{HTTPTimeoutSec: 60})
	var records []capturedRecord

	require.NoError(t, src.emitPage(fetchTestPage(t), false, true, captureTracker(&records)))
	require.Len(t, records, 1)
	assert.Equal(t, streamCustomerNotes, records[0].stream)
	assert.Equal(t, "9001", records[0].data["id"])
	assert.Equal(t, "101", records[0].data["customer_id"])
	assert.Equal(t, "called about the order", records[0].data["content"])
	assert.Equal(t, "2025-07-09T14:00:00", records[0].data["operated_at"])
}

func writeSourceConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDiscoverRespectsIncludeNotes(t *testing.T) {
	src := NewSourceEcforce(&appbase.ConnectorSettings{HTTPTimeoutSec: 60})

	path := writeSourceConfig(t, `{"domain": "example.ec-force.com", "api_token": "t", "start_date": "2025-07-01"}`)
	catalog, err := src.Discover(path, airbyte.LogTracker{})
	require.NoError(t, err)
	require.Len(t, catalog.Streams, 1)
	assert.Equal(t, streamCustomers, catalog.Streams[0].Name)

	path = writeSourceConfig(t, `{"domain": "example.ec-force.com", "api_token": "t", "start_date": "2025-07-01", "include_notes": true}`)
	catalog, err = src.Discover(path, airbyte.LogTracker{})
	require.NoError(t, err)
	require.Len(t, catalog.Streams, 2)
	assert.Equal(t, streamCustomerNotes, catalog.Streams[1].Name)
	assert.Equal(t, [][]string{{"id"}}, catalog.Streams[1].SourceDefinedPrimaryKey)
}
