package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"alice", "alice"},
		{"%", `\%`},
		{"_", `\_`},
		{`a\b`, `a\\b`},
		{"50%_off", `50\%\_off`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.input), "input %q", tt.input)
	}
}
