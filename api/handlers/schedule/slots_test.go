package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		aStart time.Time
		aDur   int
		bStart time.Time
		bDur   int
		want   bool
	}{
		{"identical slots", base, 30, base, 30, true},
		{"contained slot", base, 60, base.Add(15 * time.Minute), 30, true},
		{"partial overlap front", base, 30, base.Add(15 * time.Minute), 30, true},
		{"partial overlap back", base.Add(15 * time.Minute), 30, base, 30, true},
		{"back-to-back after", base, 30, base.Add(30 * time.Minute), 30, false},
		{"back-to-back before", base.Add(30 * time.Minute), 30, base, 30, false},
		{"disjoint", base, 30, base.Add(2 * time.Hour), 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aDur, tt.bStart, tt.bDur))
			// intersection is symmetric
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bDur, tt.aStart, tt.aDur))
		})
	}
}

func TestOverlaps_ExistingTenToTenThirty(t *testing.T) {
	// provider has an active 10:00-10:30 booking
	booked := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	// 10:15-10:45 collides
	assert.True(t, Overlaps(booked, 30, booked.Add(15*time.Minute), 30))
	// 10:30-11:00 is back-to-back and fine
	assert.False(t, Overlaps(booked, 30, booked.Add(30*time.Minute), 30))
}

func TestCoerceDuration(t *testing.T) {
	tests := []struct {
		name   string
		raw    interface{}
		want   int
		wantOK bool
	}{
		{"missing uses default", nil, 30, true},
		{"json number", float64(45), 45, true},
		{"int", 60, 60, true},
		{"numeric string", "45", 45, true},
		{"non-numeric string uses default", "soon", 30, true},
		{"bool uses default", true, 30, true},
		{"too short", float64(15), 0, false},
		{"too long", float64(90), 0, false},
		{"numeric string too long", "120", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceDuration(tt.raw, 30)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
