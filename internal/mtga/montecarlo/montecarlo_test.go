package montecarlo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

func mcEntry(name string, count int, role deck.Role) deck.Entry {
	return deck.Entry{Name: name, NameNorm: name, Count: count, RolePrimary: role}
}

func testEntries() []deck.Entry {
	return []deck.Entry{
		mcEntry("lightning bolt", 4, deck.RoleRemoval),
		mcEntry("monastery swiftspear", 4, deck.RolePayoff),
		mcEntry("experimental frenzy", 2, deck.RoleEngine),
		mcEntry("light up the stage", 3, deck.RoleDraw),
		mcEntry("mountain", 20, deck.RoleLand),
	}
}

// countScore is a cheap stand-in for the structural rescore: a weighted
// sum over counts, so every swap moves the score deterministically.
func countScore(_ context.Context, entries []deck.Entry) (float64, error) {
	score := 0.0
	for i, entry := range entries {
		score += float64(entry.Count) * float64(i+1) * 1.7
	}
	return score, nil
}

func intPtr(v int) *int           { return &v }
func seedPtr(v uint32) *uint32    { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestRunDeterministic(t *testing.T) {
	args := RunArgs{
		Entries:  testEntries(),
		BaseSPS:  50,
		Rescore:  countScore,
		Settings: &Settings{Iterations: intPtr(200), Seed: seedPtr(7)},
	}
	first, err := Run(context.Background(), args)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(context.Background(), args)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical seeds must produce identical results")
	}
}

func TestRunSeedChangesOutcome(t *testing.T) {
	base := RunArgs{
		Entries: testEntries(),
		BaseSPS: 50,
		Rescore: countScore,
	}
	base.Settings = &Settings{Iterations: intPtr(200), Seed: seedPtr(1)}
	first, err := Run(context.Background(), base)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	base.Settings = &Settings{Iterations: intPtr(200), Seed: seedPtr(2)}
	second, err := Run(context.Background(), base)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reflect.DeepEqual(first.Debug, second.Debug) && first.Dist == second.Dist {
		t.Error("different seeds produced identical runs")
	}
}

func TestRunExcludesLands(t *testing.T) {
	result, err := Run(context.Background(), RunArgs{
		Entries:  testEntries(),
		BaseSPS:  50,
		Rescore:  countScore,
		Settings: &Settings{Iterations: intPtr(500)},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Debug == nil || len(result.Debug.StepsSample) == 0 {
		t.Fatal("expected a steps sample")
	}
	for _, step := range result.Debug.StepsSample {
		if step.From == "mountain" || step.To == "mountain" {
			t.Errorf("excluded LAND entry appeared in swap %+v", step)
		}
	}
}

func TestRunDegenerateEligibleSet(t *testing.T) {
	result, err := Run(context.Background(), RunArgs{
		Entries: []deck.Entry{
			mcEntry("bolt", 4, deck.RoleRemoval),
			mcEntry("mountain", 20, deck.RoleLand),
		},
		BaseSPS: 42.34,
		Rescore: countScore,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Dist.EffectiveN != 0 {
		t.Errorf("effective_n = %d, want 0", result.Dist.EffectiveN)
	}
	if result.Dist.NoOp != result.Dist.RequestedN {
		t.Errorf("no_op = %d, want requested_n %d", result.Dist.NoOp, result.Dist.RequestedN)
	}
	if result.Dist.Mean != 42.3 || result.Base.SPS != 42.3 {
		t.Errorf("mean/base = %v/%v, want base rounded to 42.3", result.Dist.Mean, result.Base.SPS)
	}
	if result.Metrics.Fragility != 0 {
		t.Errorf("fragility = %v, want 0", result.Metrics.Fragility)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Code == WarnDegenerateEligible {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want %s", result.Warnings, WarnDegenerateEligible)
	}
}

func TestRunUnknownRoleExcludeWarning(t *testing.T) {
	result, err := Run(context.Background(), RunArgs{
		Entries: testEntries(),
		BaseSPS: 50,
		Rescore: countScore,
		Settings: &Settings{
			Iterations:   intPtr(100),
			ExcludeRoles: []deck.Role{deck.RoleLand, deck.RoleRamp},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Code == WarnUnknownRoleExclude {
			found = true
		}
	}
	if !found {
		t.Errorf("excluding absent RAMP must warn, got %v", result.Warnings)
	}
}

func TestRunPercentilesOrdered(t *testing.T) {
	result, err := Run(context.Background(), RunArgs{
		Entries:  testEntries(),
		BaseSPS:  50,
		Rescore:  countScore,
		Settings: &Settings{Iterations: intPtr(1000)},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	p := result.DistExt.Percentiles
	ordered := []float64{result.DistExt.Min, p.P05, p.P10, p.P25, p.P50, p.P75, p.P90, p.P95, result.DistExt.Max}
	for i := 1; i < len(ordered); i++ {
		if ordered[i] < ordered[i-1] {
			t.Fatalf("percentiles out of order at %d: %v", i, ordered)
		}
	}
	if result.DistExt.IQR < 0 {
		t.Errorf("iqr = %v, must be non-negative", result.DistExt.IQR)
	}
}

func TestRunRescoreErrorAborts(t *testing.T) {
	boom := errors.New("index offline")
	_, err := Run(context.Background(), RunArgs{
		Entries: testEntries(),
		BaseSPS: 50,
		Rescore: func(context.Context, []deck.Entry) (float64, error) {
			return 0, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped rescore error", err)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, RunArgs{
		Entries: testEntries(),
		BaseSPS: 50,
		Rescore: countScore,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunProgressReachesTotal(t *testing.T) {
	last, total := 0, 0
	_, err := Run(context.Background(), RunArgs{
		Entries:  testEntries(),
		BaseSPS:  50,
		Rescore:  countScore,
		Settings: &Settings{Iterations: intPtr(100)},
		OnProgress: func(completed, n int) {
			last, total = completed, n
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if total != 100 || last != 100 {
		t.Errorf("progress ended at %d/%d, want 100/100", last, total)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	n := (*Settings)(nil).Normalize()
	if n.Iterations != 1000 || n.Seed != 1 || !n.SampleByCount {
		t.Errorf("defaults wrong: %+v", n)
	}
	if n.RobustP != 0.1 || n.GammaSigma != 0.5 || n.GammaDownside != 0.5 {
		t.Errorf("defaults wrong: %+v", n)
	}
	if len(n.ExcludeRoles) != 1 || n.ExcludeRoles[0] != deck.RoleLand {
		t.Errorf("exclude_roles = %v, want [LAND]", n.ExcludeRoles)
	}
	if n.Rounding != (Rounding{SPSDecimals: 1, FragilityDecimals: 0, QuantileDecimals: 1}) {
		t.Errorf("rounding defaults wrong: %+v", n.Rounding)
	}
}

func TestNormalizeClamps(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want func(NormalizedSettings) bool
	}{
		{"iterations floor", Settings{Iterations: intPtr(5)}, func(n NormalizedSettings) bool { return n.Iterations == 100 }},
		{"iterations ceiling", Settings{Iterations: intPtr(50000)}, func(n NormalizedSettings) bool { return n.Iterations == 10000 }},
		{"robust_p floor", Settings{RobustP: floatPtr(0.001)}, func(n NormalizedSettings) bool { return n.RobustP == 0.01 }},
		{"robust_p ceiling", Settings{RobustP: floatPtr(0.9)}, func(n NormalizedSettings) bool { return n.RobustP == 0.5 }},
		{"sample_by_count off", Settings{SampleByCount: boolPtr(false)}, func(n NormalizedSettings) bool { return !n.SampleByCount }},
		{"rounding clamp", Settings{Rounding: &Rounding{SPSDecimals: 9, FragilityDecimals: -1, QuantileDecimals: 3}},
			func(n NormalizedSettings) bool {
				return n.Rounding == Rounding{SPSDecimals: 6, FragilityDecimals: 0, QuantileDecimals: 3}
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := tt.in.Normalize(); !tt.want(n) {
				t.Errorf("normalize(%+v) = %+v", tt.in, n)
			}
		})
	}
}

func TestMulberry32KnownSequence(t *testing.T) {
	// The stream stays within [0, 1) and does not repeat immediately.
	rng := mulberry32(1)
	seen := map[float64]bool{}
	for i := 0; i < 100; i++ {
		v := rng()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d = %v out of [0,1)", i, v)
		}
		seen[v] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d distinct draws in 100, generator looks broken", len(seen))
	}

	// Same seed replays the same stream.
	a, b := mulberry32(123), mulberry32(123)
	for i := 0; i < 10; i++ {
		if a() != b() {
			t.Fatal("same seed diverged")
		}
	}
}
