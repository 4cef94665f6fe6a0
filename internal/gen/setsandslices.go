//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"golang.org/x/exp/maps"
	"slices"
	"sort"
)

//
// SETS AND SLICES
//

// ToSet - returns a blank map of a slice
func ToSet[T comparable](sl []T) map[T]struct{} {
	m := make(map[T]struct{}, len(sl))
	for i := 0; i < len(sl); i++ {
		m[sl[i]] = struct{}{}
	}
	return m
}

// Unique - return only the unique items from a slice; order of first appearance is kept
func Unique[T comparable](s []T) []T {
	// can't use slices.Compact because that only looks as consecutive repeats: [a, a, b, a] -> [a, b, a]
	seen := make(map[T]struct{}, len(s))
	var result []T
	for _, k := range s {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	return result
}

// SetSubtraction - everything in aa that is not in bb
func SetSubtraction[T comparable](aa []T, bb []T) []T {
	// 	aa := []string{"a", "b", "c", "d", "g", "h"}
	//	bb := []string{"a", "b", "e", "f", "g"}
	//	dd := SetSubtraction(aa, bb)
	//  [c d h]

	drop := ToSet(bb)
	return slices.DeleteFunc(slices.Clone(aa), func(c T) bool {
		_, ok := drop[c]
		return ok
	})
}

// StringMapKeysIntoSlice - convert map[string]T to a sorted []string
func StringMapKeysIntoSlice[T any](mp map[string]T) []string {
	sl := maps.Keys(mp)
	sort.Strings(sl)
	return sl
}
