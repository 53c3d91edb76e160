package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"3", 3},
		{"2.5", 2.5},
		{`"hello"`, "hello"},
		{"not json", "not json"},
		{"1 2", "1 2"},
		{"null", nil},
		{`{"id":7,"tags":["a",1]}`, map[string]any{"id": 7, "tags": []any{"a", 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode([]byte(tt.raw)))
		})
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	_, err = Encode(make(chan int))
	assert.Error(t, err)
}
