package pana

import (
	"fmt"
	"iter"
	"slices"
)

// Predicate is any of the IsValid* rules.
type Predicate func(string) bool

// Enumerate yields every 3-digit string from 000 to 999 accepted by p, in ascending order.
// The sequence is lazy and can be ranged over any number of times.
func Enumerate(p Predicate) iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := 0; n < 1000; n++ {
			s := fmt.Sprintf("%03d", n)
			if !p(s) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// SinglePanas yields all valid single panas.
func SinglePanas() iter.Seq[string] { return Enumerate(IsValidSinglePana) }

// DoublePanas yields all valid double panas.
func DoublePanas() iter.Seq[string] { return Enumerate(IsValidDoublePana) }

// TriplePanas yields all valid triple panas.
func TriplePanas() iter.Seq[string] { return Enumerate(IsValidTriplePana) }

// Jodis yields 00 through 99.
func Jodis() iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := 0; n < 100; n++ {
			if !yield(fmt.Sprintf("%02d", n)) {
				return
			}
		}
	}
}

// Collect drains a sequence into a slice.
func Collect(seq iter.Seq[string]) []string {
	return slices.Collect(seq)
}

// BySum groups 3-digit numbers by ank. Entries that are not 3 digits are skipped.
func BySum(seq iter.Seq[string]) [10][]string {
	var buckets [10][]string
	for s := range seq {
		ank, ok := DigitSum(s)
		if !ok {
			continue
		}
		buckets[ank] = append(buckets[ank], s)
	}
	return buckets
}
