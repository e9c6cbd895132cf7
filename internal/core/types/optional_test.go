package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalTriState(t *testing.T) {
	type patch struct {
		Name     Optional[string] `json:"name"`
		Location Optional[string] `json:"locationId"`
		Quantity Optional[int64]  `json:"quantity"`
	}

	var p patch
	err := json.Unmarshal([]byte(`{"name":"widget","locationId":null}`), &p)
	require.NoError(t, err)

	v, ok := p.Name.Get()
	assert.True(t, ok)
	assert.Equal(t, "widget", v)

	assert.True(t, p.Location.Set, "explicit null must register as set")
	assert.True(t, p.Location.IsNull())

	assert.False(t, p.Quantity.Set, "absent field must stay unset")
	_, ok = p.Quantity.Get()
	assert.False(t, ok)
}

func TestOptional_Marshal(t *testing.T) {
	b, err := json.Marshal(NewOptional(int64(42)))
	require.NoError(t, err)
	assert.Equal(t, "42", string(b))

	b, err = json.Marshal(NullOptional[int64]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
