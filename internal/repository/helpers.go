package repository

import (
	"sort"
	"strings"
)

// placeholders builds a comma separated list of n "?" markers for use
// in IN (...) clauses and bulk inserts.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// uint64Args converts seat/booking IDs into the []interface{} shape
// required by database/sql query arguments.
func uint64Args(ids []uint64) []interface{} {
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

// sortedUnique returns a copy of ids sorted ascending with duplicates
// removed. Reserving locks ledger rows in this order so that two
// transactions wanting overlapping seat sets always lock in the same
// sequence and cannot deadlock each other.
func sortedUnique(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
