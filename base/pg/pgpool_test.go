package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSchema(t *testing.T) {
	assert.Equal(t, "public", extractSchema("postgres://u:p@localhost:5432/db?search_path=public"))
	assert.Equal(t, "analytics", extractSchema("postgres://u:p@localhost:5432/db?schema=analytics&sslmode=disable"))
	assert.Equal(t, "my schema", extractSchema("postgres://u:p@localhost:5432/db?search_path=my+schema"))
	assert.Equal(t, "", extractSchema("postgres://u:p@localhost:5432/db"))
}

func TestSearchPathStatement(t *testing.T) {
	assert.Equal(t, `SET search_path TO "public"`, searchPathStatement("public"))
	// quotes in the schema name are doubled, so the name cannot terminate the identifier
	assert.Equal(t, `SET search_path TO "odd""name'; drop schema public"`,
		searchPathStatement(`odd"name'; drop schema public`))
}
