package repository

import (
	"reflect"
	"testing"
)

func TestPlaceholders(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, "?"},
		{3, "?,?,?"},
	}
	for _, tc := range cases {
		if got := placeholders(tc.n); got != tc.want {
			t.Errorf("placeholders(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestUint64Args(t *testing.T) {
	got := uint64Args([]uint64{5, 1})
	want := []interface{}{uint64(5), uint64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("uint64Args = %#v, want %#v", got, want)
	}
}

func TestSortedUnique(t *testing.T) {
	cases := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{"already sorted", []uint64{1, 2, 3}, []uint64{1, 2, 3}},
		{"reversed", []uint64{9, 4, 2}, []uint64{2, 4, 9}},
		{"duplicates collapse", []uint64{7, 7, 3, 3, 3}, []uint64{3, 7}},
		{"zeros dropped", []uint64{0, 5, 0, 1}, []uint64{1, 5}},
		{"empty", nil, []uint64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sortedUnique(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("sortedUnique(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSortedUniqueDoesNotMutateInput(t *testing.T) {
	in := []uint64{3, 1, 2}
	_ = sortedUnique(in)
	if !reflect.DeepEqual(in, []uint64{3, 1, 2}) {
		t.Fatalf("input slice was mutated: %v", in)
	}
}

func TestSeatConflictErrorMessage(t *testing.T) {
	err := &SeatConflictError{SeatIDs: []uint64{4, 9}}
	if got, want := err.Error(), "seats already booked: [4 9]"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestPricingNotFoundErrorMessage(t *testing.T) {
	err := &PricingNotFoundError{SeatType: "vip"}
	if got, want := err.Error(), `no price defined for seat type "vip"`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
