package utils_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/meenmo/mandate/utils"
)

func generate(t *testing.T, freq string, start, maturity time.Time) utils.DateSchedule {
	t.Helper()
	g, err := utils.NewScheduleGenerator(freq, utils.DefaultDateHelper())
	if err != nil {
		t.Fatalf("NewScheduleGenerator(%q): %v", freq, err)
	}
	s, err := g.Generate(start, maturity)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return s
}

func TestGenerate_Single(t *testing.T) {
	t.Parallel()

	s := generate(t, utils.SingleFrequency, date(2024, 1, 1), date(2025, 7, 1))
	if diff := cmp.Diff([]time.Time{date(2025, 7, 1)}, s.PaymentDates); diff != "" {
		t.Fatalf("payment dates (-want +got):\n%s", diff)
	}
	if math.Abs(s.YearFractions[0]-1.5) > 1e-15 {
		t.Fatalf("year fraction %.15f want 1.5", s.YearFractions[0])
	}
}

func TestGenerate_BackwardWithStub(t *testing.T) {
	t.Parallel()

	start := date(2024, 1, 15)
	maturity := date(2025, 1, 1)
	s := generate(t, "6M", start, maturity)

	wantDates := []time.Time{date(2024, 7, 1), date(2025, 1, 1)}
	if diff := cmp.Diff(wantDates, s.PaymentDates); diff != "" {
		t.Fatalf("payment dates (-want +got):\n%s", diff)
	}
	wantFractions := []float64{166.0 / 360.0, 0.5}
	opt := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-14 })
	if diff := cmp.Diff(wantFractions, s.YearFractions, opt); diff != "" {
		t.Fatalf("year fractions (-want +got):\n%s", diff)
	}
}

func TestGenerate_MonotoneAndAdditive(t *testing.T) {
	t.Parallel()

	h := utils.DefaultDateHelper()
	starts := []time.Time{date(2023, 3, 31), date(2024, 1, 1), date(2024, 2, 29), date(2024, 11, 17)}
	tenors := []utils.Delta{{Years: 1}, {Years: 3}, {Months: 30}, {Years: 10}}
	freqs := []string{"1M", "3M", "6M", "1Y", "45D"}

	for _, start := range starts {
		for _, tenor := range tenors {
			maturity := tenor.Shift(start, 1)
			for _, freq := range freqs {
				s := generate(t, freq, start, maturity)
				if len(s.PaymentDates) != len(s.YearFractions) {
					t.Fatalf("%s: %d dates vs %d fractions", freq, len(s.PaymentDates), len(s.YearFractions))
				}
				if !s.PaymentDates[len(s.PaymentDates)-1].Equal(maturity) {
					t.Fatalf("%s: last payment %s want maturity %s", freq,
						utils.FormatDate(s.PaymentDates[len(s.PaymentDates)-1]), utils.FormatDate(maturity))
				}
				prev := start
				sum := 0.0
				for i, d := range s.PaymentDates {
					if !d.After(prev) {
						t.Fatalf("%s: payment %d (%s) not after %s", freq, i, utils.FormatDate(d), utils.FormatDate(prev))
					}
					prev = d
					sum += s.YearFractions[i]
				}
				if want := h.AccrualFactor(start, maturity); math.Abs(sum-want) > 1e-12 {
					t.Fatalf("%s from %s: fractions sum %.15f want %.15f", freq, utils.FormatDate(start), sum, want)
				}
			}
		}
	}
}

func TestGenerate_TooShort(t *testing.T) {
	t.Parallel()

	g, err := utils.NewScheduleGenerator("6M", utils.DefaultDateHelper())
	if err != nil {
		t.Fatalf("NewScheduleGenerator: %v", err)
	}
	if _, err := g.Generate(date(2024, 1, 1), date(2024, 3, 1)); !errors.Is(err, utils.ErrScheduleTooShort) {
		t.Fatalf("expected ErrScheduleTooShort, got %v", err)
	}
	if _, err := utils.NewScheduleGenerator("6Q", utils.DefaultDateHelper()); !errors.Is(err, utils.ErrUnknownFrequency) {
		t.Fatalf("expected ErrUnknownFrequency, got %v", err)
	}
}

func TestGenerate_ZeroGeneratorFails(t *testing.T) {
	t.Parallel()

	var g utils.ScheduleGenerator
	if _, err := g.Generate(date(2024, 1, 1), date(2026, 1, 1)); !errors.Is(err, utils.ErrUnknownFrequency) {
		t.Fatalf("expected ErrUnknownFrequency, got %v", err)
	}
}

func TestClipAndNextPaymentIndex(t *testing.T) {
	t.Parallel()

	s := generate(t, "3M", date(2024, 1, 1), date(2025, 1, 1))
	if s.Len() != 4 {
		t.Fatalf("expected 4 payments, got %d", s.Len())
	}

	clipped := s.Clip(date(2024, 7, 1))
	want := []time.Time{date(2024, 10, 1), date(2025, 1, 1)}
	if diff := cmp.Diff(want, clipped.PaymentDates); diff != "" {
		t.Fatalf("clipped dates (-want +got):\n%s", diff)
	}
	if len(clipped.YearFractions) != 2 || math.Abs(clipped.YearFractions[0]-0.25) > 1e-15 {
		t.Fatalf("clipped fractions %v", clipped.YearFractions)
	}
	if !clipped.StartDate.Equal(s.StartDate) {
		t.Fatalf("clip must keep the start date")
	}

	idx, err := s.NextPaymentIndex(date(2024, 5, 20))
	if err != nil {
		t.Fatalf("NextPaymentIndex: %v", err)
	}
	if idx != 1 {
		t.Fatalf("NextPaymentIndex = %d want 1", idx)
	}
	if idx, _ := s.NextPaymentIndex(date(2023, 12, 1)); idx != 0 {
		t.Fatalf("NextPaymentIndex before start = %d want 0", idx)
	}
	if _, err := s.NextPaymentIndex(date(2025, 1, 1)); !errors.Is(err, utils.ErrNoFuturePayment) {
		t.Fatalf("expected ErrNoFuturePayment, got %v", err)
	}
	if got := s.Clip(date(2026, 1, 1)); got.Len() != 0 {
		t.Fatalf("expected empty clip, got %d payments", got.Len())
	}
}
