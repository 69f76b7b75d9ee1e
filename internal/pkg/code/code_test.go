package code

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		c, err := Generate()
		require.NoError(t, err)
		assert.Regexp(t, codeRe, c)

		n, err := strconv.Atoi(c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

// Bucket codes by leading digit: each of 1-9 covers exactly 100000 values,
// so counts should be close to uniform. Tolerance is generous to keep the
// test deterministic in practice.
func TestGenerate_UniformLeadingDigit(t *testing.T) {
	const samples = 90000
	counts := make(map[byte]int)
	for i := 0; i < samples; i++ {
		c, err := Generate()
		require.NoError(t, err)
		counts[c[0]]++
	}

	require.Len(t, counts, 9)
	expected := samples / 9
	for digit := byte('1'); digit <= '9'; digit++ {
		got := counts[digit]
		assert.InDelta(t, expected, got, float64(expected)*0.15,
			"leading digit %c: got %d, expected ~%d", digit, got, expected)
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		c, err := Generate()
		require.NoError(t, err)
		seen[c] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
