package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareStreamID(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "1700000000000-0", b: "1700000000000-0", want: 0},
		{name: "older millis", a: "999-5", b: "1000-0", want: -1},
		{name: "newer sequence", a: "1000-10", b: "1000-9", want: 1},
		{name: "numeric not lexical", a: "9-0", b: "10-0", want: -1},
		{name: "malformed falls back to string order", a: "abc", b: "abd", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareStreamID(tt.a, tt.b))
		})
	}
}
