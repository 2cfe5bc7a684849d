package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID string `json:"id"`
}

func TestJSON_Value(t *testing.T) {
	v, err := JSON([]item{{ID: "a"}}).Value()
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, v)

	var none []string
	v, err = JSON(none).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = JSON(map[string]int{"x": 1}).Value()
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, v)
}

func TestScanJSON(t *testing.T) {
	var got []item
	require.NoError(t, ScanJSON(&got).Scan([]byte(`[{"id":"a"},{"id":"b"}]`)))
	assert.Equal(t, []item{{ID: "a"}, {ID: "b"}}, got)

	var s []string
	require.NoError(t, ScanJSON(&s).Scan(`["x"]`))
	assert.Equal(t, []string{"x"}, s)

	keep := []string{"unchanged"}
	require.NoError(t, ScanJSON(&keep).Scan(nil))
	assert.Equal(t, []string{"unchanged"}, keep)

	assert.Error(t, ScanJSON(&s).Scan(42))
	assert.Error(t, ScanJSON(&s).Scan([]byte(`{`)))
}
