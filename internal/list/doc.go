// Package list provides a fixed-capacity, insertion-ordered container used
// as the backing store for every resource pool.
//
// Lookups are linear. Removal compacts the remaining items so the sequence
// stays dense and keeps its relative order. Pools are small and bounded by
// MaxCount, so the O(n) costs never matter in practice.
package list
