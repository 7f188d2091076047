// Package pana classifies 2- and 3-digit bet numbers.
//
// A pana is a 3-digit number whose digit sum modulo 10 (the ank) is the result digit
// of a market session. A jodi is a 2-digit pair of open and close anks.
package pana

import "strings"

// Kind is the classification of a 3-digit string.
type Kind string

const (
	KindInvalid Kind = "invalid"
	KindSingle  Kind = "single"
	KindDouble  Kind = "double"
	KindTriple  Kind = "triple"
)

// Class is the classification of a pana plus its ank.
type Class struct {
	Kind Kind `json:"kind"`
	Ank  int  `json:"ank"`
}

// IsValidJodi reports whether s, trimmed, is exactly two decimal digits.
func IsValidJodi(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 2 && isDigit(s[0]) && isDigit(s[1])
}

// IsValidSinglePana reports whether s is three distinct digits.
func IsValidSinglePana(s string) bool {
	a, b, c, ok := digits(s)
	return ok && a != b && b != c && a != c
}

// IsValidDoublePana applies the double pana rule.
//
// The rule is deliberately asymmetric: a leading zero is never allowed, a trailing
// "00" or an "xx0" pair is always allowed, and otherwise the last digit must be
// greater than the first. So 550 and 500 pass while 055, 221 and 551 do not.
func IsValidDoublePana(s string) bool {
	a, b, c, ok := digits(s)
	if !ok {
		return false
	}
	if a != b && b != c {
		return false
	}
	if a == 0 {
		return false
	}
	if b == 0 && c == 0 {
		return true
	}
	if a == b && c == 0 {
		return true
	}
	if c <= a {
		return false
	}
	return true
}

// IsValidTriplePana reports whether s is three identical digits.
func IsValidTriplePana(s string) bool {
	a, b, c, ok := digits(s)
	return ok && a == b && b == c
}

// IsValidAnyPana reports whether s is a single, double or triple pana.
func IsValidAnyPana(s string) bool {
	return IsValidSinglePana(s) || IsValidDoublePana(s) || IsValidTriplePana(s)
}

// DigitSum returns the ank of a 3-digit string: the digit sum modulo 10.
// ok is false when s is not three decimal digits.
func DigitSum(s string) (int, bool) {
	a, b, c, ok := digits(s)
	if !ok {
		return 0, false
	}
	return (a + b + c) % 10, true
}

// Classify returns the pana kind and ank of s.
func Classify(s string) Class {
	ank, ok := DigitSum(s)
	if !ok {
		return Class{Kind: KindInvalid}
	}
	switch {
	case IsValidTriplePana(s):
		return Class{Kind: KindTriple, Ank: ank}
	case IsValidSinglePana(s):
		return Class{Kind: KindSingle, Ank: ank}
	case IsValidDoublePana(s):
		return Class{Kind: KindDouble, Ank: ank}
	}
	return Class{Kind: KindInvalid, Ank: ank}
}

// digits splits a trimmed 3-digit string.
func digits(s string) (a, b, c int, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) != 3 || !isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[2]) {
		return 0, 0, 0, false
	}
	return int(s[0] - '0'), int(s[1] - '0'), int(s[2] - '0'), true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
