package core

import (
	"testing"
	"time"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if result := r.Contains(tc.x, tc.y); result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(2, 3, 10, 6).Inset(1)
	if r != NewRect(3, 4, 8, 4) {
		t.Errorf("Inset(1) = %+v", r)
	}

	tiny := NewRect(0, 0, 1, 1).Inset(2)
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset should not produce negative size, got %+v", tiny)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if result := Clamp(tc.val, tc.min, tc.max); result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
}

func TestTickDuration(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
	}
	for _, tc := range tests {
		cfg := RuntimeConfig{TickRate: tc.rate}
		if got := cfg.TickDuration(); got != tc.want {
			t.Errorf("TickDuration(%d) = %v, expected %v", tc.rate, got, tc.want)
		}
	}
}

func TestInputFrameCounts(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ActionLeft)
	f.Set(ActionHold)

	if f.Count(ActionLeft) != 2 {
		t.Errorf("Count(Left) = %d, expected 2", f.Count(ActionLeft))
	}
	if !f.Has(ActionHold) || f.Has(ActionRight) {
		t.Error("Has reported wrong actions")
	}

	clone := f.Clone()
	f.Clear()
	if f.Has(ActionLeft) {
		t.Error("Clear should drop all actions")
	}
	if clone.Count(ActionLeft) != 2 {
		t.Error("Clone should be independent of the original")
	}

	var zero InputFrame
	if zero.Has(ActionLeft) {
		t.Error("zero frame should have no actions")
	}
	zero.Set(ActionPause)
	if !zero.Has(ActionPause) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	if ActionHardDrop.String() != "HardDrop" {
		t.Errorf("String() = %q", ActionHardDrop.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action String() = %q", Action(99).String())
	}
}
