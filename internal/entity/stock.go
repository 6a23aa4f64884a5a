// Package entity provides the player character and the ore it carries.
package entity

import "maps"

// Stock counts pieces of ore by ore ID.
type Stock map[string]int

// Total returns the number of pieces across all ore types.
func (s Stock) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Add increases the count for an ore. Non-positive amounts are ignored.
func (s Stock) Add(id string, n int) {
	if n > 0 {
		s[id] += n
	}
}

// Take removes and returns every piece of the given ore.
func (s Stock) Take(id string) int {
	n := s[id]
	delete(s, id)
	return n
}

// Clone returns an independent copy.
func (s Stock) Clone() Stock {
	if s == nil {
		return Stock{}
	}
	return maps.Clone(s)
}
