package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc() map[string]any {
	return map[string]any{
		"id":   float64(7),
		"name": "Leanne Graham",
		"address": map[string]any{
			"city": "Gwenborough",
			"geo": map[string]any{
				"lat": "-37.3159",
				"lng": "81.1496",
			},
		},
		"emails": []any{"a@example.com", "b@example.com"},
		"orders": []any{
			map[string]any{"sku": "A-1", "qty": float64(2)},
			map[string]any{"sku": "B-9", "qty": float64(1)},
		},
	}
}

func TestParse(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
	_, err = Parse("a..b")
	assert.Error(t, err)
	_, err = Parse(".a")
	assert.Error(t, err)

	p, err := Parse("address.geo.lat")
	require.NoError(t, err)
	assert.Equal(t, "address.geo.lat", p.String())
	assert.False(t, p.HasWildcard())

	p, err = Parse("orders.*.sku")
	require.NoError(t, err)
	assert.True(t, p.HasWildcard())
}

func TestResolvePlain(t *testing.T) {
	doc := testDoc()

	p, err := Parse("address.geo.lat")
	require.NoError(t, err)
	assert.Equal(t, []any{"-37.3159"}, p.Resolve(doc))

	p, err = Parse("name")
	require.NoError(t, err)
	v, ok := p.First(doc)
	require.True(t, ok)
	assert.Equal(t, "Leanne Graham", v)

	p, err = Parse("address.zipcode")
	require.NoError(t, err)
	assert.Empty(t, p.Resolve(doc))

	// scalar in the middle of the path matches nothing
	p, err = Parse("name.first")
	require.NoError(t, err)
	assert.Empty(t, p.Resolve(doc))
}

func TestResolveArrayIndex(t *testing.T) {
	doc := testDoc()

	p, err := Parse("emails.1")
	require.NoError(t, err)
	assert.Equal(t, []any{"b@example.com"}, p.Resolve(doc))

	p, err = Parse("emails.5")
	require.NoError(t, err)
	assert.Empty(t, p.Resolve(doc))
}

func TestResolveWildcard(t *testing.T) {
	doc := testDoc()

	p, err := Parse("orders.*.sku")
	require.NoError(t, err)
	assert.Equal(t, []any{"A-1", "B-9"}, p.Resolve(doc))

	p, err = Parse("emails.*")
	require.NoError(t, err)
	assert.Equal(t, []any{"a@example.com", "b@example.com"}, p.Resolve(doc))

	// wildcard over object keys is visited in sorted key order
	p, err = Parse("address.geo.*")
	require.NoError(t, err)
	assert.Equal(t, []any{"-37.3159", "81.1496"}, p.Resolve(doc))
}

func TestFlatten(t *testing.T) {
	doc := testDoc()

	p, err := Parse("orders.*.qty")
	require.NoError(t, err)
	v, ok := p.Flatten(doc)
	require.True(t, ok)
	assert.Equal(t, []any{float64(2), float64(1)}, v)

	p, err = Parse("address.city")
	require.NoError(t, err)
	v, ok = p.Flatten(doc)
	require.True(t, ok)
	assert.Equal(t, "Gwenborough", v)

	p, err = Parse("orders.*.missing")
	require.NoError(t, err)
	_, ok = p.Flatten(doc)
	assert.False(t, ok)
}
