package betslip

import (
	"iter"
	"strconv"
	"strings"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/pana"
)

// Validator returns the number rule for a bet family.
func Validator(f domain.BetFamily) pana.Predicate {
	switch f {
	case domain.FamilyJodi:
		return pana.IsValidJodi
	case domain.FamilySinglePana:
		return pana.IsValidSinglePana
	case domain.FamilyDoublePana:
		return pana.IsValidDoublePana
	case domain.FamilyTriplePana:
		return pana.IsValidTriplePana
	case domain.FamilyHalfSangam:
		return IsValidHalfSangam
	}
	return func(string) bool { return false }
}

// Numbers yields every valid number for a family, used to lay out entry grids.
// Half sangam yields the composite key of every valid pana.
func Numbers(f domain.BetFamily) iter.Seq[string] {
	switch f {
	case domain.FamilyJodi:
		return pana.Jodis()
	case domain.FamilyHalfSangam:
		return func(yield func(string) bool) {
			for p := range pana.Enumerate(pana.IsValidAnyPana) {
				key, _ := HalfSangamNumber(p)
				if !yield(key) {
					return
				}
			}
		}
	}
	return pana.Enumerate(Validator(f))
}

// Normalize trims number and, for half sangam, expands a bare pana into its
// composite key. ok is false when the number is not valid for the family.
func Normalize(f domain.BetFamily, number string) (string, bool) {
	number = strings.TrimSpace(number)
	if f == domain.FamilyHalfSangam && !strings.Contains(number, "-") {
		return HalfSangamNumber(number)
	}
	if !Validator(f)(number) {
		return "", false
	}
	return number, true
}

// HalfSangamNumber builds the "<pana>-<ank>" key for a half sangam bet.
// The ank is always derived from the pana.
func HalfSangamNumber(openPana string) (string, bool) {
	openPana = strings.TrimSpace(openPana)
	if !pana.IsValidAnyPana(openPana) {
		return "", false
	}
	ank, _ := pana.DigitSum(openPana)
	return openPana + "-" + strconv.Itoa(ank), true
}

// IsValidHalfSangam checks a composite key: a valid pana followed by its own ank.
func IsValidHalfSangam(s string) bool {
	p, ank, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return false
	}
	want, ok := HalfSangamNumber(p)
	return ok && want == p+"-"+ank
}

// HalfSangamForm is the two-field entry form for half sangam bets.
// Ank is read-only for the user: every pana edit recomputes it. Flipped only
// changes which field is shown first.
type HalfSangamForm struct {
	Pana    string `json:"pana"`
	Ank     string `json:"ank"`
	Flipped bool   `json:"flipped"`
}

// SetPana updates the pana field and overwrites the ank with its digit sum.
// An incomplete or invalid pana clears the ank.
func (f *HalfSangamForm) SetPana(p string) {
	f.Pana = strings.TrimSpace(p)
	if ank, ok := pana.DigitSum(f.Pana); ok && pana.IsValidAnyPana(f.Pana) {
		f.Ank = strconv.Itoa(ank)
		return
	}
	f.Ank = ""
}

// Flip swaps the display order of the two fields.
func (f *HalfSangamForm) Flip() { f.Flipped = !f.Flipped }

// Number returns the composite key for the current form, if complete.
func (f HalfSangamForm) Number() (string, bool) {
	return HalfSangamNumber(f.Pana)
}
