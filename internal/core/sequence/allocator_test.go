package sequence

import (
	"math"
	"testing"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		previous *float64
		next     *float64
		want     float64
	}{
		{name: "empty group gets the base gap", want: Gap},
		{name: "append after previous", previous: Ptr(30000), want: 40000},
		{name: "insert before next halves it", next: Ptr(20000), want: 10000},
		{name: "midpoint between neighbours", previous: Ptr(10000), next: Ptr(20000), want: 15000},
		{name: "fractional midpoint", previous: Ptr(1), next: Ptr(2), want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allocate(tt.previous, tt.next); got != tt.want {
				t.Errorf("Allocate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllocate_MidpointProperty(t *testing.T) {
	pairs := [][2]float64{
		{0.5, 1}, {10000, 10001}, {-5, 5}, {1e9, 1e9 + 3}, {123.25, 9999.75},
	}
	for _, p := range pairs {
		got := Allocate(Ptr(p[0]), Ptr(p[1]))
		if !(p[0] < got && got < p[1]) {
			t.Errorf("Allocate(%v, %v) = %v, want strictly between", p[0], p[1], got)
		}
	}
}

func TestAllocate_MonotonicAppend(t *testing.T) {
	for _, prev := range []float64{-20000, 0, 1, 15000, 1e12} {
		got := Allocate(Ptr(prev), nil)
		if got != prev+Gap {
			t.Errorf("Allocate(%v, nil) = %v, want %v", prev, got, prev+Gap)
		}
		if got <= prev {
			t.Errorf("Allocate(%v, nil) = %v, want > previous", prev, got)
		}
	}
}

func TestAppend(t *testing.T) {
	tail := Ptr(30000)
	want := []float64{40000, 50000, 60000}
	for k := 1; k <= 3; k++ {
		if got := Append(tail, k); got != want[k-1] {
			t.Errorf("Append(30000, %d) = %v, want %v", k, got, want[k-1])
		}
	}
	if got := Append(nil, 1); got != Gap {
		t.Errorf("Append(nil, 1) = %v, want %v", got, Gap)
	}
}

func TestExhausted(t *testing.T) {
	tests := []struct {
		name     string
		previous *float64
		next     *float64
		result   float64
		want     bool
	}{
		{name: "healthy midpoint", previous: Ptr(10000), next: Ptr(20000), result: 15000},
		{name: "healthy append", previous: Ptr(10000), result: 20000},
		{name: "healthy head insert", next: Ptr(10000), result: 5000},
		{name: "midpoint collapsed onto previous", previous: Ptr(1), next: Ptr(math.Nextafter(1, 2)), result: 1, want: true},
		{name: "neighbours too close", previous: Ptr(1), next: Ptr(1 + 1e-7), result: 1 + 5e-8, want: true},
		{name: "head insert converged on zero", next: Ptr(1e-6), result: 5e-7, want: true},
		{name: "inverted neighbours are not reported", previous: Ptr(20), next: Ptr(10), result: 15},
		{name: "nan result", previous: Ptr(1), result: math.NaN(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exhausted(tt.previous, tt.next, tt.result); got != tt.want {
				t.Errorf("Exhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExhausted_RepeatedHeadInsertion(t *testing.T) {
	head := Gap
	for i := 0; i < 200; i++ {
		next := head
		head = Allocate(nil, &next)
		if Exhausted(nil, &next, head) {
			return
		}
	}
	t.Fatal("expected repeated head insertion to be reported as exhausted")
}

func TestRenumber(t *testing.T) {
	got := Renumber(3)
	want := []float64{10000, 20000, 30000}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Renumber(3)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Renumber(0)) != 0 {
		t.Error("Renumber(0) should be empty")
	}
}
