package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterests(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims whitespace",
			input: []string{"  fantasy ", "history"},
			want:  []string{"fantasy", "history"},
		},
		{
			name:  "drops empties",
			input: []string{"", "  ", "mystery"},
			want:  []string{"mystery"},
		},
		{
			name:  "dedupes keeping first position",
			input: []string{"sci-fi", "history", "sci-fi", "history"},
			want:  []string{"sci-fi", "history"},
		},
		{
			name:  "case sensitive",
			input: []string{"Sci-Fi", "sci-fi"},
			want:  []string{"Sci-Fi", "sci-fi"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interests(tt.input))
		})
	}
}

func TestSplitInterests(t *testing.T) {
	assert.Equal(t, []string{"fantasy", "true crime"}, SplitInterests(" fantasy, true crime ,fantasy,"))
	assert.Equal(t, []string{}, SplitInterests("   "))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "reader@example.com", Email("  Reader@Example.COM "))
}
