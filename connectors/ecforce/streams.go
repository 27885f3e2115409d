package main

import (
	"github.com/starx-inc/airbyte/airbytecdk"
)

func sourceSpec() *airbyte.ConnectorSpecification {
	return &airbyte.ConnectorSpecification{
		DocumentationURL:    "https://ec-force.com/api-docs",
		SupportsIncremental: false,
		ConnectionSpecification: airbyte.ConnectionSpecification{
			Schema:      "http://json-schema.org/draft-07/schema#",
			Title:       "ecforce Source Spec",
			Description: "Syncs customers and customer notes from the ecforce admin API",
			Type:        "object",
			Required:    []airbyte.PropertyName{"domain", "api_token", "start_date"},
			Properties: airbyte.Properties{
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"domain": {
						Title:        "Shop Domain",
						Description:  "Admin domain of the shop, e.g. example.ec-force.com",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Order:        0,
					},
					"api_token": {
						Title:        "API Token",
						Description:  "Admin API token",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						IsSecret:     true,
						Order:        1,
					},
					"start_date": {
						Title:        "Start Date",
						Description:  "Sync records updated on or after this date (YYYY-MM-DD)",
						PropertyType: airbyte.PropertyType{Type: airbyte.String, Format: airbyte.Date},
						Examples:     []string{"2025-01-01"},
						Order:        2,
					},
					"end_date": {
						Title:        "End Date",
						Description:  "Sync records updated up to this date (YYYY-MM-DD). Defaults to today.",
						PropertyType: airbyte.PropertyType{Type: airbyte.String, Format: airbyte.Date},
						Order:        3,
					},
					"include_notes": {
						Title:        "Include Customer Notes",
						Description:  "Expose the customer_notes stream in addition to customers",
						PropertyType: airbyte.PropertyType{Type: airbyte.Boolean},
						Default:      false,
						Order:        4,
					},
				},
			},
		},
	}
}

func stringProp() airbyte.PropertySpec {
	return airbyte.PropertySpec{PropertyType: airbyte.PropertyType{Type: airbyte.String}}
}

func datetimeProp() airbyte.PropertySpec {
	return airbyte.PropertySpec{PropertyType: airbyte.PropertyType{
		Type: airbyte.String, Format: airbyte.DateTime, AirbyteType: airbyte.TimestampWOTZ,
	}}
}

func customersStream() airbyte.Stream {
	return airbyte.Stream{
		Name:                    streamCustomers,
		SupportedSyncModes:      []airbyte.SyncMode{airbyte.SyncModeFullRefresh},
		SourceDefinedPrimaryKey: [][]string{{"id"}},
		JSONSchema: airbyte.Properties{
			Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
				"id":            stringProp(),
				"type":          stringProp(),
				"name":          stringProp(),
				"name_kana":     stringProp(),
				"email":         stringProp(),
				"tel":           stringProp(),
				"mobile":        stringProp(),
				"birthday":      {PropertyType: airbyte.PropertyType{Type: airbyte.String, Format: airbyte.Date}},
				"sex":           {PropertyType: airbyte.PropertyType{Type: airbyte.Integer}},
				"postal_code":   stringProp(),
				"prefecture":    stringProp(),
				"city":          stringProp(),
				"street":        stringProp(),
				"building":      stringProp(),
				"company_name":  stringProp(),
				"department":    stringProp(),
				"customer_code": stringProp(),
				"customer_status": {
					PropertyType: airbyte.PropertyType{Type: airbyte.Integer},
				},
				"accepts_marketing": {
					PropertyType: airbyte.PropertyType{Type: airbyte.Boolean},
				},
				"accepts_marketing_updated_at": datetimeProp(),
				"created_at":                   datetimeProp(),
				"updated_at":                   datetimeProp(),
				"deleted_at":                   datetimeProp(),
			},
		},
	}
}

func customerNotesStream() airbyte.Stream {
	return airbyte.Stream{
		Name:                    streamCustomerNotes,
		SupportedSyncModes:      []airbyte.SyncMode{airbyte.SyncModeFullRefresh},
		SourceDefinedPrimaryKey: [][]string{{"id"}},
		JSONSchema: airbyte.Properties{
			Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
				"id":          stringProp(),
				"customer_id": stringProp(),
				"content":     stringProp(),
				"operated_at": datetimeProp(),
				"created_at":  datetimeProp(),
				"updated_at":  datetimeProp(),
			},
		},
	}
}
