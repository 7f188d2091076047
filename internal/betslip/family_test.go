package betslip

import (
	"testing"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/pana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHalfSangamNumber(t *testing.T) {
	key, ok := HalfSangamNumber("556")
	require.True(t, ok)
	assert.Equal(t, "556-6", key)

	key, ok = HalfSangamNumber(" 123 ")
	require.True(t, ok)
	assert.Equal(t, "123-6", key)

	_, ok = HalfSangamNumber("221")
	assert.False(t, ok)
}

func TestIsValidHalfSangam(t *testing.T) {
	assert.True(t, IsValidHalfSangam("556-6"))
	assert.True(t, IsValidHalfSangam("777-1"))
	assert.False(t, IsValidHalfSangam("556-5"))
	assert.False(t, IsValidHalfSangam("556"))
	assert.False(t, IsValidHalfSangam("221-5"))
	assert.False(t, IsValidHalfSangam("-6"))
}

func TestHalfSangamForm_AnkFollowsPana(t *testing.T) {
	var f HalfSangamForm

	f.SetPana("12")
	assert.Equal(t, "", f.Ank)

	f.SetPana("123")
	assert.Equal(t, "6", f.Ank)

	// a manual ank edit is overwritten by the next pana edit
	f.Ank = "9"
	f.SetPana("559")
	assert.Equal(t, "9", f.Ank)
	f.SetPana("550")
	assert.Equal(t, "0", f.Ank)

	f.Flip()
	f.SetPana("124")
	assert.True(t, f.Flipped)
	assert.Equal(t, "7", f.Ank)

	key, ok := f.Number()
	require.True(t, ok)
	assert.Equal(t, "124-7", key)
}

func TestAdd_HalfSangamExpandsBarePana(t *testing.T) {
	slip := New("kalyan", domain.FamilyHalfSangam)

	_, err := slip.Add(domain.Candidate{Number: "123", Points: "10"})
	require.NoError(t, err)
	_, err = slip.Add(domain.Candidate{Number: "123-6", Points: "5"})
	require.NoError(t, err)

	require.Equal(t, 1, slip.Len())
	assert.Equal(t, "123-6", slip.Lines()[0].Number)
	assert.Equal(t, "15", slip.Lines()[0].Points)
}

func TestValidator_DispatchesPerFamily(t *testing.T) {
	assert.True(t, Validator(domain.FamilyJodi)("23"))
	assert.True(t, Validator(domain.FamilySinglePana)("123"))
	assert.True(t, Validator(domain.FamilyDoublePana)("550"))
	assert.True(t, Validator(domain.FamilyTriplePana)("888"))
	assert.True(t, Validator(domain.FamilyHalfSangam)("888-4"))
	assert.False(t, Validator(domain.BetFamily("unknown"))("23"))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, pana.Collect(pana.DoublePanas()), pana.Collect(Numbers(domain.FamilyDoublePana)))
	assert.Len(t, pana.Collect(Numbers(domain.FamilyJodi)), 100)
	assert.Len(t, pana.Collect(Numbers(domain.FamilyHalfSangam)), 720+90+10)
}
