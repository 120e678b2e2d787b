package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("8N1")
	require.NoError(t, err)
	assert.Equal(t, Frame{DataBits: 8, Parity: ParityNone, StopBits: 1}, f)
	assert.Equal(t, "8N1", f.String())

	f, err = ParseFormat(" 7e2 ")
	require.NoError(t, err)
	assert.Equal(t, Frame{DataBits: 7, Parity: ParityEven, StopBits: 2}, f)

	for _, bad := range []string{"", "8N", "9N1", "8X1", "8N3", "8N10", "4O1"} {
		_, err := ParseFormat(bad)
		assert.Error(t, err, bad)
	}
}

func TestCheckSpeed(t *testing.T) {
	assert.NoError(t, CheckSpeed(115200))
	assert.NoError(t, CheckSpeed(9600))
	assert.Error(t, CheckSpeed(12345))
	assert.Error(t, CheckSpeed(0))
}
