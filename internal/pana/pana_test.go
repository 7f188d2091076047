package pana

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteDouble restates the double pana rule digit by digit.
func bruteDouble(a, b, c int) bool {
	switch {
	case a != b && b != c:
		return false
	case a == 0:
		return false
	case b == 0 && c == 0:
		return true
	case a == b && c == 0:
		return true
	case c <= a:
		return false
	}
	return true
}

func TestIsValidJodi(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"00", true},
		{"23", true},
		{" 99 ", true},
		{"7", false},
		{"123", false},
		{"a1", false},
		{"", false},
		{"-1", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidJodi(tt.input))
		})
	}
}

func TestIsValidDoublePana_Examples(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"550", true},
		{"500", true},
		{"055", false},
		{"551", false},
		{"559", true},
		{"115", true},
		{"221", false},
		{"100", true},
		{"110", true},
		{"111", false},
		{"000", false},
		{"123", false},
		{"12", false},
		{"1a1", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDoublePana(tt.input))
		})
	}
}

func TestPredicates_AgreeWithBruteForce(t *testing.T) {
	for n := 0; n < 1000; n++ {
		s := fmt.Sprintf("%03d", n)
		a, b, c := n/100, n/10%10, n%10

		assert.Equal(t, a != b && b != c && a != c, IsValidSinglePana(s), "single %s", s)
		assert.Equal(t, bruteDouble(a, b, c), IsValidDoublePana(s), "double %s", s)
		assert.Equal(t, a == b && b == c, IsValidTriplePana(s), "triple %s", s)

		// single and double never overlap
		assert.False(t, IsValidSinglePana(s) && IsValidDoublePana(s), "overlap %s", s)
	}
}

func TestEnumerate_MatchesFilteredRange(t *testing.T) {
	var wantDouble, wantSingle []string
	for n := 0; n < 1000; n++ {
		s := fmt.Sprintf("%03d", n)
		if IsValidDoublePana(s) {
			wantDouble = append(wantDouble, s)
		}
		if IsValidSinglePana(s) {
			wantSingle = append(wantSingle, s)
		}
	}

	assert.Equal(t, wantDouble, Collect(DoublePanas()))
	assert.Equal(t, wantSingle, Collect(SinglePanas()))
	assert.Len(t, wantDouble, 90)
	assert.Len(t, wantSingle, 720)
	assert.Len(t, Collect(TriplePanas()), 10)
	assert.Len(t, Collect(Jodis()), 100)
}

func TestEnumerate_Restartable(t *testing.T) {
	seq := DoublePanas()
	first := Collect(seq)
	second := Collect(seq)
	assert.Equal(t, first, second)

	// stopping early must not disturb later runs
	for s := range seq {
		assert.Equal(t, "100", s)
		break
	}
	assert.Equal(t, first, Collect(seq))
}

func TestDigitSum(t *testing.T) {
	ank, ok := DigitSum("556")
	require.True(t, ok)
	assert.Equal(t, 6, ank)

	ank, ok = DigitSum("999")
	require.True(t, ok)
	assert.Equal(t, 7, ank)

	_, ok = DigitSum("55")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Class{Kind: KindSingle, Ank: 6}, Classify("123"))
	assert.Equal(t, Class{Kind: KindDouble, Ank: 0}, Classify("550"))
	assert.Equal(t, Class{Kind: KindTriple, Ank: 5}, Classify("555"))
	assert.Equal(t, KindInvalid, Classify("221").Kind)
	assert.Equal(t, KindInvalid, Classify("12").Kind)
}

func TestIsValidAnyPana(t *testing.T) {
	assert.True(t, IsValidAnyPana("123"))
	assert.True(t, IsValidAnyPana("559"))
	assert.True(t, IsValidAnyPana("777"))
	assert.False(t, IsValidAnyPana("221"))
	assert.False(t, IsValidAnyPana("1234"))
}

func TestBySum(t *testing.T) {
	buckets := BySum(DoublePanas())
	total := 0
	for ank, nums := range buckets {
		assert.Len(t, nums, 9, "bucket %d", ank)
		for _, s := range nums {
			got, ok := DigitSum(s)
			require.True(t, ok)
			assert.Equal(t, ank, got)
		}
		total += len(nums)
	}
	assert.Equal(t, 90, total)
}
