package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTheme(t *testing.T) {
	got, err := decodeTheme(nil)
	require.NoError(t, err)
	assert.Nil(t, got.Colors)

	got, err = decodeTheme([]byte(`{"colors":{"bg":"#111"},"badge":{"a":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "#111", got.Colors.String("bg"))
	assert.JSONEq(t, `{"a":1}`, string(got.Extra["badge"]))

	for _, corrupt := range []string{"[1,2]", `"x"`, `{"colors":`} {
		_, err = decodeTheme([]byte(corrupt))
		assert.Error(t, err, corrupt)
	}
}
