package app_test

import (
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func TestQuoteStay_ThreeNights(t *testing.T) {
	h := domain.Hotel{ID: 1, Price: 100}
	q, err := app.QuoteStay(h, date("2024-06-01"), date("2024-06-04"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if q.Nights != 3 || q.Total != 300 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestTotalPrice_CeilsPartialDays(t *testing.T) {
	in := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	cases := []struct {
		out  time.Time
		want float64
	}{
		{in.Add(time.Hour), 80},
		{in.Add(24 * time.Hour), 80},
		{in.Add(25 * time.Hour), 160},
		{in.Add(72*time.Hour - time.Minute), 240},
	}
	for _, c := range cases {
		got, err := app.TotalPrice(80, in, c.out)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if got != c.want {
			t.Fatalf("out=%s: got %v want %v", c.out, got, c.want)
		}
	}
}

func TestTotalPrice_RejectsEmptyOrInvertedRange(t *testing.T) {
	d := date("2024-06-01")
	if _, err := app.TotalPrice(100, d.Time, d.Time); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("same day: expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := app.TotalPrice(100, d.Time, d.AddDate(0, 0, -1)); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("inverted: expected ErrInvalidDateRange, got %v", err)
	}
}

func TestNights_CalendarDatesIgnoreDST(t *testing.T) {
	// 2024-03-31 is the EU spring-forward day
	n, err := app.Nights(date("2024-03-30").Time, date("2024-04-02").Time)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 nights, got %d", n)
	}
}

func TestTotalPrice_RoundsToCents(t *testing.T) {
	got, err := app.TotalPrice(33.333, date("2024-01-01").Time, date("2024-01-04").Time)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestTotalPrice_MatchesFormulaForManyRanges(t *testing.T) {
	start := date("2024-01-01")
	for _, price := range []float64{0, 49.5, 100, 725} {
		for nights := 1; nights <= 30; nights++ {
			got, err := app.TotalPrice(price, start.Time, start.AddDate(0, 0, nights))
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if want := price * float64(nights); got != want {
				t.Fatalf("price=%v nights=%d: got %v want %v", price, nights, got, want)
			}
		}
	}
}
