package freshness

import (
	"context"
	"testing"
	"time"
)

type stubStore struct {
	slaHours       float64
	lastProfiledAt *time.Time
}

func (s *stubStore) DatasetFreshness(context.Context, string) (float64, *time.Time, error) {
	return s.slaHours, s.lastProfiledAt, nil
}

func TestAt_FreshWithinSLA(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-6 * time.Hour)

	rec := At("ds1", &last, 24, now)
	if !rec.IsFresh {
		t.Fatalf("IsFresh = false, want true")
	}
	if rec.AgeHours != 6 {
		t.Fatalf("AgeHours = %v, want 6", rec.AgeHours)
	}
}

func TestAt_StaleBeyondSLA(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-48 * time.Hour)

	rec := At("ds1", &last, 24, now)
	if rec.IsFresh {
		t.Fatalf("IsFresh = true, want false")
	}
	if rec.AgeHours != 48 {
		t.Fatalf("AgeHours = %v, want 48", rec.AgeHours)
	}
}

func TestAt_AgeEqualToSLAIsFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-24 * time.Hour)

	if rec := At("ds1", &last, 24, now); !rec.IsFresh {
		t.Fatalf("IsFresh = false at exact SLA boundary, want true")
	}
}

func TestAt_NeverProfiledIsMaximallyStale(t *testing.T) {
	rec := At("ds1", nil, 24, time.Now())
	if rec.IsFresh {
		t.Fatalf("IsFresh = true for never-profiled dataset")
	}
	if rec.AgeHours != NeverProfiledAgeHours {
		t.Fatalf("AgeHours = %v, want NeverProfiledAgeHours", rec.AgeHours)
	}
}

func TestTracker_DefaultSLAApplied(t *testing.T) {
	last := time.Now().UTC().Add(-time.Hour)
	tracker := &Tracker{Store: &stubStore{slaHours: 0, lastProfiledAt: &last}, DefaultSLAHours: 24}

	rec, err := tracker.Compute(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if rec.SLAHours != 24 {
		t.Fatalf("SLAHours = %v, want default 24", rec.SLAHours)
	}
	if !rec.IsFresh {
		t.Fatalf("IsFresh = false, want true")
	}
}
