package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditPayloadEmptyValues(t *testing.T) {
	v, err := AuditPayload(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	var p AuditPayload
	require.NoError(t, p.Scan(nil))
	assert.NotNil(t, p)
	assert.Empty(t, p)

	require.NoError(t, p.Scan([]byte(`{"account_id":"a1","failures":5}`)))
	assert.Equal(t, "a1", p["account_id"])
	assert.Equal(t, float64(5), p["failures"])

	assert.Error(t, p.Scan(42))
	assert.Error(t, p.Scan(`{not json`))
}
