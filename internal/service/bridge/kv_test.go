package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeKV_KeepsOrder(t *testing.T) {
	text := EncodeKV([]Pair{
		{"id", "20240101T000000Z_abc123"},
		{"action", "COPY_MA"},
		{"symbol", "GOLD"},
	})

	assert.Equal(t, "id=20240101T000000Z_abc123\naction=COPY_MA\nsymbol=GOLD\n", text)
}

func TestDecodeKV_SkipsMalformedLines(t *testing.T) {
	fields := DecodeKV("ok=true\n\nthis line has no separator\n  data_file = bars.csv \n")

	assert.Equal(t, map[string]string{
		"ok":        "true",
		"data_file": "bars.csv",
	}, fields)
}

func TestDecodeKV_SplitsOnFirstEquals(t *testing.T) {
	fields := DecodeKV("error=order failed: price=0\n")

	assert.Equal(t, "order failed: price=0", fields["error"])
}

func TestKV_RoundTrip(t *testing.T) {
	pairs := []Pair{
		{"id", "x"},
		{"action", "COPY_RATES"},
		{"count", "300"},
	}

	fields := DecodeKV(EncodeKV(pairs))
	assert.Len(t, fields, len(pairs))
	for _, p := range pairs {
		assert.Equal(t, p.Value, fields[p.Key])
	}
}
