package memory

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDecay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dayAgo := now.Add(-24 * time.Hour)

	t.Run("locked passes through", func(t *testing.T) {
		if got := Decay(-1, &dayAgo, 0.1, now); got != -1 {
			t.Errorf("Decay(-1) = %v, want -1", got)
		}
	})

	t.Run("never practiced returns base", func(t *testing.T) {
		if got := Decay(0.9, nil, 0.1, now); got != 0.9 {
			t.Errorf("Decay with nil last practice = %v, want 0.9", got)
		}
	})

	t.Run("one day of decay", func(t *testing.T) {
		want := 0.8 * math.Exp(-0.1)
		if got := Decay(0.8, &dayAgo, 0.1, now); !almostEqual(got, want) {
			t.Errorf("Decay = %v, want %v", got, want)
		}
	})

	t.Run("clock skew treated as zero elapsed", func(t *testing.T) {
		future := now.Add(time.Hour)
		if got := Decay(0.8, &future, 0.1, now); got != 0.8 {
			t.Errorf("Decay with future last practice = %v, want 0.8", got)
		}
	})

	t.Run("monotone in elapsed time", func(t *testing.T) {
		prev := 1.0
		for days := 0; days <= 30; days++ {
			at := now.Add(time.Duration(-days) * 24 * time.Hour)
			got := Decay(0.9, &at, 0.05, now)
			if got > prev {
				t.Fatalf("decay increased at day %d: %v > %v", days, got, prev)
			}
			prev = got
		}
	})
}

func TestPredictRecall(t *testing.T) {
	p := DefaultParams()
	// At strength 2.0-bias the sigmoid argument is zero.
	if got := PredictRecall(2.0, p); !almostEqual(got, 0.5) {
		t.Errorf("PredictRecall(2.0) = %v, want 0.5", got)
	}
	if lo, hi := PredictRecall(0, p), PredictRecall(1, p); lo >= hi {
		t.Errorf("recall not increasing in strength: %v >= %v", lo, hi)
	}
}

func TestTimePenalty(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name    string
		seconds float64
		want    float64
	}{
		{"ideal speed", 5, 1.0},
		{"faster than ideal caps at one", 0, 1.0},
		{"slow answer floors at half", 60, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimePenalty(tc.seconds, p); !almostEqual(got, tc.want) {
				t.Errorf("TimePenalty(%v) = %v, want %v", tc.seconds, got, tc.want)
			}
		})
	}
	// Between the bounds the penalty follows the exponential.
	want := math.Exp(-0.5)
	if got := TimePenalty(10, p); !almostEqual(got, want) {
		t.Errorf("TimePenalty(10) = %v, want %v", got, want)
	}
}

func TestUpdate(t *testing.T) {
	p := DefaultParams()

	t.Run("correct at ideal speed", func(t *testing.T) {
		if got := Update(0.5, true, 5, p); !almostEqual(got, 0.65) {
			t.Errorf("Update = %v, want 0.65", got)
		}
	})

	t.Run("incorrect decays by factor", func(t *testing.T) {
		if got := Update(0.5, false, 5, p); !almostEqual(got, 0.4) {
			t.Errorf("Update = %v, want 0.4", got)
		}
	})

	t.Run("correct at full strength stays clamped", func(t *testing.T) {
		if got := Update(1.0, true, 5, p); got != 1.0 {
			t.Errorf("Update = %v, want 1.0", got)
		}
	})

	t.Run("slow correct answer earns less", func(t *testing.T) {
		fast := Update(0.5, true, 5, p)
		slow := Update(0.5, true, 30, p)
		if slow >= fast {
			t.Errorf("slow update %v not below fast update %v", slow, fast)
		}
	})
}

func TestSlowResponse(t *testing.T) {
	p := DefaultParams()
	if SlowResponse(15, p) {
		t.Error("15s should not be flagged slow")
	}
	if !SlowResponse(15.1, p) {
		t.Error("15.1s should be flagged slow")
	}
}

func TestBoostAndDampen(t *testing.T) {
	if got := Boost(0.5, 0.05); !almostEqual(got, 0.525) {
		t.Errorf("Boost = %v, want 0.525", got)
	}
	if got := Boost(1.0, 0.05); got != 1.0 {
		t.Errorf("Boost at ceiling = %v, want 1.0", got)
	}
	if got := Dampen(0.5, 0.03); !almostEqual(got, 0.485) {
		t.Errorf("Dampen = %v, want 0.485", got)
	}
	if got := Dampen(0, 0.03); got != 0 {
		t.Errorf("Dampen at floor = %v, want 0", got)
	}
}
