package model

import (
	"errors"
	"math"
	"testing"
)

func TestValidSeatType(t *testing.T) {
	for _, st := range []string{SeatTypeRegular, SeatTypeVIP, SeatTypePremium} {
		if !ValidSeatType(st) {
			t.Errorf("%q should be a valid seat type", st)
		}
	}
	for _, st := range []string{"", "REGULAR", "balcony"} {
		if ValidSeatType(st) {
			t.Errorf("%q should not be a valid seat type", st)
		}
	}
}

func TestSumPriceCents(t *testing.T) {
	prices := map[string]uint32{
		SeatTypeRegular: 1500,
		SeatTypeVIP:     3000,
	}
	seats := []Seat{
		{ID: 1, SeatType: SeatTypeRegular},
		{ID: 2, SeatType: SeatTypeRegular},
		{ID: 3, SeatType: SeatTypeVIP},
	}
	total, missing, err := SumPriceCents(seats, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != "" {
		t.Fatalf("unexpected missing seat type %q", missing)
	}
	if total != 6000 {
		t.Fatalf("total = %d, want 6000", total)
	}
}

func TestSumPriceCentsMissingType(t *testing.T) {
	prices := map[string]uint32{SeatTypeRegular: 1500}
	seats := []Seat{
		{ID: 1, SeatType: SeatTypeRegular},
		{ID: 2, SeatType: SeatTypePremium},
	}
	total, missing, err := SumPriceCents(seats, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != SeatTypePremium {
		t.Fatalf("missing = %q, want %q", missing, SeatTypePremium)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0 when a seat type has no price", total)
	}
}

func TestSumPriceCentsEmpty(t *testing.T) {
	total, missing, err := SumPriceCents(nil, map[string]uint32{})
	if total != 0 || missing != "" || err != nil {
		t.Fatalf("SumPriceCents(nil) = (%d, %q, %v), want (0, \"\", nil)", total, missing, err)
	}
}

func TestSumPriceCentsOverflow(t *testing.T) {
	prices := map[string]uint32{SeatTypeVIP: math.MaxUint32}
	seats := []Seat{
		{ID: 1, SeatType: SeatTypeVIP},
		{ID: 2, SeatType: SeatTypeVIP},
	}
	total, _, err := SumPriceCents(seats, prices)
	if !errors.Is(err, ErrPriceOverflow) {
		t.Fatalf("err = %v, want ErrPriceOverflow", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0 on overflow", total)
	}
}
