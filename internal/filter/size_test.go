package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fsio/internal/fserr"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"100", 100},
		{" 100B ", 100},
		{"100b", 100},
		{"100K", 100 << 10},
		{"100k", 100 << 10},
		{"4KB", 4 << 10},
		{"2MiB", 2 << 20},
		{"1M", 1 << 20},
		{"1G", 1 << 30},
		{"1T", 1 << 40},
		{"1.5G", 1610612736},
		{"0.5M", 524288},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeErrors(t *testing.T) {
	for _, input := range []string{"", "abc", "K", "notanumber G", "-5", "1X"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSize(input)
			assert.ErrorIs(t, err, fserr.ErrConfigurationError)
		})
	}
}
