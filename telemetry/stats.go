package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population    int   `csv:"population"`
	SpeciesCounts []int `csv:"-"` // indexed by species ID; log output only

	// Events during window
	Births            int `csv:"births"`
	Deaths            int `csv:"deaths"`
	Matings           int `csv:"matings"`
	CourtshipFailures int `csv:"courtship_failures"`
	StagePromotions   int `csv:"stage_promotions"`

	// Breeding status occupancy at window end
	Seeking  int `csv:"seeking"`
	Mating   int `csv:"mating"`
	Pregnant int `csv:"pregnant"`
	Caring   int `csv:"caring"`

	// Behavior decisions during window
	DecIdle        int `csv:"dec_idle"`
	DecForaging    int `csv:"dec_foraging"`
	DecDrinking    int `csv:"dec_drinking"`
	DecResting     int `csv:"dec_resting"`
	DecSocializing int `csv:"dec_socializing"`
	DecExploring   int `csv:"dec_exploring"`
	DecTerritorial int `csv:"dec_territorial"`
	DecBreeding    int `csv:"dec_breeding"`
	DecMigrating   int `csv:"dec_migrating"`
	DecParenting   int `csv:"dec_parenting"`

	// Trait distributions (sampled at window end)
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	SatisfactionMean float64 `csv:"satisfaction_mean"`
	AggressionMean   float64 `csv:"aggression_mean"`
	AggressionStd    float64 `csv:"aggression_std"`
	FertilityMean    float64 `csv:"fertility_mean"`
	FertilityStd     float64 `csv:"fertility_std"`

	ActiveLineages int `csv:"active_lineages"`
}

// ComputeTraitStats calculates mean, std, and percentiles from trait samples.
func ComputeTraitStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Any("species_counts", s.SpeciesCounts),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("matings", s.Matings),
		slog.Int("courtship_failures", s.CourtshipFailures),
		slog.Int("stage_promotions", s.StagePromotions),
		slog.Int("seeking", s.Seeking),
		slog.Int("mating", s.Mating),
		slog.Int("pregnant", s.Pregnant),
		slog.Int("caring", s.Caring),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("satisfaction_mean", s.SatisfactionMean),
		slog.Int("active_lineages", s.ActiveLineages),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"species_counts", s.SpeciesCounts,
		"births", s.Births,
		"deaths", s.Deaths,
		"matings", s.Matings,
		"courtship_failures", s.CourtshipFailures,
		"stage_promotions", s.StagePromotions,
		"seeking", s.Seeking,
		"mating", s.Mating,
		"pregnant", s.Pregnant,
		"caring", s.Caring,
		"dec_idle", s.DecIdle,
		"dec_foraging", s.DecForaging,
		"dec_drinking", s.DecDrinking,
		"dec_resting", s.DecResting,
		"dec_socializing", s.DecSocializing,
		"dec_exploring", s.DecExploring,
		"dec_territorial", s.DecTerritorial,
		"dec_breeding", s.DecBreeding,
		"dec_migrating", s.DecMigrating,
		"dec_parenting", s.DecParenting,
		"fitness_mean", s.FitnessMean,
		"fitness_std", s.FitnessStd,
		"fitness_p10", s.FitnessP10,
		"fitness_p50", s.FitnessP50,
		"fitness_p90", s.FitnessP90,
		"satisfaction_mean", s.SatisfactionMean,
		"aggression_mean", s.AggressionMean,
		"aggression_std", s.AggressionStd,
		"fertility_mean", s.FertilityMean,
		"fertility_std", s.FertilityStd,
		"active_lineages", s.ActiveLineages,
	)
}
