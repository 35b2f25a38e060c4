// Package montecarlo perturbs a deck one swap at a time and rescores it,
// producing a distribution of structural power scores plus robustness
// metrics. Runs are fully deterministic for a given seed.
package montecarlo

import (
	"context"
	"fmt"
	"sort"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

const (
	resultVersion = "mc_v1"
	swapKind      = "swap1_internal"

	minIterations     = 100
	maxIterations     = 10000
	defaultIterations = 1000
	defaultSeed       = 1
	minRobustP        = 0.01
	maxRobustP        = 0.5
	defaultRobustP    = 0.1
	defaultGamma      = 0.5

	maxStepsSample = 10

	// Guards the relative delta against a zero base score.
	deltaEps = 1e-9
)

// Rounding controls decimal places on reported figures.
type Rounding struct {
	SPSDecimals       int `json:"sps_decimals"`
	FragilityDecimals int `json:"fragility_decimals"`
	QuantileDecimals  int `json:"quantile_decimals"`
}

// Settings is the caller-facing knob set. Nil pointer fields take
// defaults during normalization.
type Settings struct {
	Iterations    *int        `json:"iterations,omitempty"`
	Seed          *uint32     `json:"seed,omitempty"`
	ExcludeRoles  []deck.Role `json:"exclude_roles,omitempty"`
	SampleByCount *bool       `json:"sample_by_count,omitempty"`
	RobustP       *float64    `json:"robust_p,omitempty"`
	GammaSigma    *float64    `json:"gamma_sigma,omitempty"`
	GammaDownside *float64    `json:"gamma_downside,omitempty"`
	Rounding      *Rounding   `json:"rounding,omitempty"`
}

// NormalizedSettings is the fully resolved knob set echoed in results.
type NormalizedSettings struct {
	Mode          string      `json:"mode"`
	Kind          string      `json:"kind"`
	Iterations    int         `json:"iterations"`
	Seed          uint32      `json:"seed"`
	ExcludeRoles  []deck.Role `json:"exclude_roles"`
	SampleByCount bool        `json:"sample_by_count"`
	RobustP       float64     `json:"robust_p"`
	GammaSigma    float64     `json:"gamma_sigma"`
	GammaDownside float64     `json:"gamma_downside"`
	Rounding      Rounding    `json:"rounding"`
}

// Normalize resolves defaults and clamps every knob into its valid
// range. A nil receiver yields the full default configuration.
func (s *Settings) Normalize() NormalizedSettings {
	n := NormalizedSettings{
		Mode:          "on",
		Kind:          swapKind,
		Iterations:    defaultIterations,
		Seed:          defaultSeed,
		ExcludeRoles:  []deck.Role{deck.RoleLand},
		SampleByCount: true,
		RobustP:       defaultRobustP,
		GammaSigma:    defaultGamma,
		GammaDownside: defaultGamma,
		Rounding:      Rounding{SPSDecimals: 1, FragilityDecimals: 0, QuantileDecimals: 1},
	}
	if s == nil {
		return n
	}
	if s.Iterations != nil {
		n.Iterations = clampInt(*s.Iterations, minIterations, maxIterations)
	}
	if s.Seed != nil {
		n.Seed = *s.Seed
	}
	if s.ExcludeRoles != nil {
		n.ExcludeRoles = append([]deck.Role(nil), s.ExcludeRoles...)
	}
	if s.SampleByCount != nil {
		n.SampleByCount = *s.SampleByCount
	}
	if s.RobustP != nil {
		n.RobustP = clamp(*s.RobustP, minRobustP, maxRobustP)
	}
	if s.GammaSigma != nil {
		n.GammaSigma = *s.GammaSigma
	}
	if s.GammaDownside != nil {
		n.GammaDownside = *s.GammaDownside
	}
	if s.Rounding != nil {
		n.Rounding = Rounding{
			SPSDecimals:       clampInt(s.Rounding.SPSDecimals, 0, 6),
			FragilityDecimals: clampInt(s.Rounding.FragilityDecimals, 0, 6),
			QuantileDecimals:  clampInt(s.Rounding.QuantileDecimals, 0, 6),
		}
	}
	return n
}

// Warning flags a non-fatal condition observed during the run.
type Warning struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

const (
	WarnUnknownRoleExclude = "UNKNOWN_ROLE_EXCLUDE"
	WarnDegenerateEligible = "DEGENERATE_ELIGIBLE_SET"
)

// SwapStep records one perturbation for debugging.
type SwapStep struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Debug carries a small sample of the swaps actually performed.
type Debug struct {
	StepsSample []SwapStep `json:"steps_sample,omitempty"`
}

// Provenance ties a result back to the build and card index it ran
// against.
type Provenance struct {
	BuildSHA        string `json:"build_sha,omitempty"`
	CardsIndexCount *int   `json:"cards_index_count,omitempty"`
}

// Dist summarizes the perturbed score distribution.
type Dist struct {
	RequestedN   int     `json:"requested_n"`
	EffectiveN   int     `json:"effective_n"`
	NoOp         int     `json:"no_op"`
	Mean         float64 `json:"mean"`
	Stdev        float64 `json:"stdev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	P10          float64 `json:"p10"`
	P25          float64 `json:"p25"`
	P50          float64 `json:"p50"`
	P75          float64 `json:"p75"`
	P90          float64 `json:"p90"`
	QRobust      float64 `json:"q_robust"`
	DeltaMean    float64 `json:"delta_mean"`
	DeltaStdev   float64 `json:"delta_stdev"`
	DeltaP10     float64 `json:"delta_p10"`
	DeltaQRobust float64 `json:"delta_q_robust"`
}

// Percentiles is the extended quantile spread.
type Percentiles struct {
	P05 float64 `json:"p05"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// DistExt carries the extended distribution view used by charting.
type DistExt struct {
	Percentiles     Percentiles     `json:"percentiles"`
	Mean            float64         `json:"mean"`
	Stdev           float64         `json:"stdev"`
	IQR             float64         `json:"iqr"`
	Min             float64         `json:"min"`
	Max             float64         `json:"max"`
	DeltasAbsVsBase DeltasAbsVsBase `json:"deltas_abs_vs_base"`
	CV              float64         `json:"cv"`
}

// DeltasAbsVsBase reports absolute percentile offsets from the base
// score.
type DeltasAbsVsBase struct {
	P05 float64 `json:"p05"`
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Metrics are the two headline robustness figures.
type Metrics struct {
	RobustSPS float64 `json:"robust_sps"`
	Fragility float64 `json:"fragility"`
}

// Result is the complete simulation output.
type Result struct {
	Version    string             `json:"version"`
	Settings   NormalizedSettings `json:"settings"`
	Base       Base               `json:"base"`
	Dist       Dist               `json:"dist"`
	DistExt    DistExt            `json:"dist_ext"`
	Metrics    Metrics            `json:"metrics"`
	Warnings   []Warning          `json:"warnings,omitempty"`
	Provenance *Provenance        `json:"provenance,omitempty"`
	Debug      *Debug             `json:"debug,omitempty"`
}

// Base is the unperturbed reference score.
type Base struct {
	SPS float64 `json:"sps"`
}

// RescoreFunc recomputes the structural power score for a perturbed
// entry set.
type RescoreFunc func(ctx context.Context, entries []deck.Entry) (float64, error)

// RunArgs bundles the inputs for a simulation run.
type RunArgs struct {
	Entries    []deck.Entry
	BaseSPS    float64
	Rescore    RescoreFunc
	Settings   *Settings
	Provenance *Provenance

	// OnProgress, when set, is invoked after each iteration.
	OnProgress func(completed, total int)
}

// Run executes the swap-1 simulation. Degenerate inputs (fewer than two
// eligible entries) produce a flat result with a warning rather than an
// error; only rescore failures and context cancellation abort the run.
func Run(ctx context.Context, args RunArgs) (*Result, error) {
	settings := args.Settings.Normalize()
	requestedN := settings.Iterations

	var warnings []Warning
	rolesPresent := make(map[deck.Role]bool, len(args.Entries))
	for _, entry := range args.Entries {
		if entry.RolePrimary != "" {
			rolesPresent[entry.RolePrimary] = true
		}
	}
	for _, role := range settings.ExcludeRoles {
		if role == deck.RoleLand {
			continue
		}
		if !rolesPresent[role] {
			warnings = append(warnings, Warning{
				Code:   WarnUnknownRoleExclude,
				Detail: fmt.Sprintf("role not present: %s", role),
			})
		}
	}

	eligibles := eligibleIndices(args.Entries, settings.ExcludeRoles)
	if len(eligibles) < 2 {
		warnings = append(warnings, Warning{
			Code:   WarnDegenerateEligible,
			Detail: "need at least two eligible card names",
		})
		return flatResult(settings, requestedN, requestedN, args.BaseSPS, warnings, args.Provenance, nil), nil
	}

	spsValues := make([]float64, 0, requestedN)
	deltaValues := make([]float64, 0, requestedN)
	noOp := 0
	var steps []SwapStep

	scratch := make([]deck.Entry, len(args.Entries))

	for i := 1; i <= requestedN; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng := mulberry32(iterationSeed(settings.Seed, i))
		from, to, ok := sampleSwap(args.Entries, eligibles, rng, settings.SampleByCount)
		if !ok {
			noOp++
			continue
		}

		if len(steps) < maxStepsSample {
			steps = append(steps, SwapStep{
				From: args.Entries[from].Name,
				To:   args.Entries[to].Name,
			})
		}

		copy(scratch, args.Entries)
		if scratch[from].Count > 0 {
			scratch[from].Count--
		}
		scratch[to].Count++

		sps, err := args.Rescore(ctx, scratch)
		if err != nil {
			return nil, fmt.Errorf("rescore iteration %d: %w", i, err)
		}
		spsValues = append(spsValues, sps)
		delta := (sps - args.BaseSPS) / max(deltaEps, args.BaseSPS)
		deltaValues = append(deltaValues, delta)

		if args.OnProgress != nil {
			args.OnProgress(i, requestedN)
		}
	}

	var debug *Debug
	if len(steps) > 0 {
		debug = &Debug{StepsSample: steps}
	}

	effectiveN := len(spsValues)
	if effectiveN == 0 {
		return flatResult(settings, requestedN, noOp, args.BaseSPS, warnings, args.Provenance, debug), nil
	}

	spsSorted := append([]float64(nil), spsValues...)
	sort.Float64s(spsSorted)
	deltaSorted := append([]float64(nil), deltaValues...)
	sort.Float64s(deltaSorted)

	m := mean(spsValues)
	sd := stdev(spsValues, m)
	dm := mean(deltaValues)
	dsd := stdev(deltaValues, dm)

	deltaP10 := quantileNearestRank(deltaSorted, 0.1)
	downside := max(0, -deltaP10)
	fragility := clamp(100*clamp(settings.GammaSigma*dsd+settings.GammaDownside*downside, 0, 1), 0, 100)

	spsDec := settings.Rounding.SPSDecimals
	qDec := settings.Rounding.QuantileDecimals
	base := roundTo(args.BaseSPS, spsDec)

	p05 := quantileNearestRank(spsSorted, 0.05)
	p10 := quantileNearestRank(spsSorted, 0.1)
	p25 := quantileNearestRank(spsSorted, 0.25)
	p50 := quantileNearestRank(spsSorted, 0.5)
	p75 := quantileNearestRank(spsSorted, 0.75)
	p90 := quantileNearestRank(spsSorted, 0.9)
	p95 := quantileNearestRank(spsSorted, 0.95)
	qRobust := quantileNearestRank(spsSorted, settings.RobustP)

	cv := 0.0
	if m != 0 {
		cv = sd / m
	}

	return &Result{
		Version:  resultVersion,
		Settings: settings,
		Base:     Base{SPS: base},
		Dist: Dist{
			RequestedN:   requestedN,
			EffectiveN:   effectiveN,
			NoOp:         noOp,
			Mean:         roundTo(m, spsDec),
			Stdev:        roundTo(sd, spsDec),
			Min:          roundTo(spsSorted[0], spsDec),
			Max:          roundTo(spsSorted[len(spsSorted)-1], spsDec),
			P10:          roundTo(p10, qDec),
			P25:          roundTo(p25, qDec),
			P50:          roundTo(p50, qDec),
			P75:          roundTo(p75, qDec),
			P90:          roundTo(p90, qDec),
			QRobust:      roundTo(qRobust, qDec),
			DeltaMean:    roundTo(dm, qDec),
			DeltaStdev:   roundTo(dsd, qDec),
			DeltaP10:     roundTo(deltaP10, qDec),
			DeltaQRobust: roundTo(quantileNearestRank(deltaSorted, settings.RobustP), qDec),
		},
		DistExt: DistExt{
			Percentiles: Percentiles{
				P05: roundTo(p05, qDec),
				P10: roundTo(p10, qDec),
				P25: roundTo(p25, qDec),
				P50: roundTo(p50, qDec),
				P75: roundTo(p75, qDec),
				P90: roundTo(p90, qDec),
				P95: roundTo(p95, qDec),
			},
			Mean:  roundTo(m, spsDec),
			Stdev: roundTo(sd, spsDec),
			IQR:   roundTo(p75-p25, qDec),
			Min:   roundTo(spsSorted[0], spsDec),
			Max:   roundTo(spsSorted[len(spsSorted)-1], spsDec),
			DeltasAbsVsBase: DeltasAbsVsBase{
				P05: roundTo(p05-args.BaseSPS, qDec),
				P10: roundTo(p10-args.BaseSPS, qDec),
				P50: roundTo(p50-args.BaseSPS, qDec),
				P90: roundTo(p90-args.BaseSPS, qDec),
				P95: roundTo(p95-args.BaseSPS, qDec),
			},
			CV: roundTo(cv, 4),
		},
		Metrics: Metrics{
			RobustSPS: roundTo(qRobust, qDec),
			Fragility: roundTo(fragility, settings.Rounding.FragilityDecimals),
		},
		Warnings:   warnings,
		Provenance: args.Provenance,
		Debug:      debug,
	}, nil
}

// flatResult collapses the distribution to the base score when no
// perturbation could be scored.
func flatResult(settings NormalizedSettings, requestedN, noOp int, baseSPS float64, warnings []Warning, prov *Provenance, debug *Debug) *Result {
	base := roundTo(baseSPS, settings.Rounding.SPSDecimals)
	return &Result{
		Version:  resultVersion,
		Settings: settings,
		Base:     Base{SPS: base},
		Dist: Dist{
			RequestedN: requestedN,
			EffectiveN: 0,
			NoOp:       noOp,
			Mean:       base,
			Min:        base,
			Max:        base,
			P10:        base,
			P25:        base,
			P50:        base,
			P75:        base,
			P90:        base,
			QRobust:    base,
		},
		DistExt: DistExt{
			Percentiles: Percentiles{
				P05: base, P10: base, P25: base, P50: base,
				P75: base, P90: base, P95: base,
			},
			Mean: base,
			Min:  base,
			Max:  base,
		},
		Metrics: Metrics{
			RobustSPS: base,
			Fragility: 0,
		},
		Warnings:   warnings,
		Provenance: prov,
		Debug:      debug,
	}
}
