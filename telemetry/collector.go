package telemetry

import "github.com/kkingfung/Laboratory-sub000/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	decisions         [components.BehaviorCount]int
	matings           int
	courtshipFailures int
	births            int
	deaths            int
	stagePromotions   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordDecision records a behavior decision for the given category.
func (c *Collector) RecordDecision(cat components.BehaviorCategory) {
	c.decisions[cat]++
}

// RecordMating records a successfully paired couple.
func (c *Collector) RecordMating() {
	c.matings++
}

// RecordCourtshipFailure records a rejected mate attempt.
func (c *Collector) RecordCourtshipFailure() {
	c.courtshipFailures++
}

// RecordBirth records one offspring entering the world.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a creature dying of old age or otherwise removed.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordStagePromotion records a life stage transition.
func (c *Collector) RecordStagePromotion() {
	c.stagePromotions++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample holds the per-creature values sampled at window end,
// collected by the caller during its telemetry pass.
type PopulationSample struct {
	Population   int
	SpeciesCount []int // indexed by species ID

	// Breeding status occupancy
	Seeking  int
	Mating   int
	Pregnant int
	Caring   int

	// Per-creature samples for distribution stats
	Fitness      []float64
	Satisfaction []float64
	Aggression   []float64
	Fertility    []float64

	ActiveLineages int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	fitMean, fitStd, fitP10, fitP50, fitP90 := ComputeTraitStats(sample.Fitness)
	satMean, _, _, _, _ := ComputeTraitStats(sample.Satisfaction)
	aggMean, aggStd, _, _, _ := ComputeTraitStats(sample.Aggression)
	fertMean, fertStd, _, _, _ := ComputeTraitStats(sample.Fertility)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Population:    sample.Population,
		SpeciesCounts: append([]int(nil), sample.SpeciesCount...),

		Births:            c.births,
		Deaths:            c.deaths,
		Matings:           c.matings,
		CourtshipFailures: c.courtshipFailures,
		StagePromotions:   c.stagePromotions,

		Seeking:  sample.Seeking,
		Mating:   sample.Mating,
		Pregnant: sample.Pregnant,
		Caring:   sample.Caring,

		DecIdle:        c.decisions[components.BehaviorIdle],
		DecForaging:    c.decisions[components.BehaviorForaging],
		DecDrinking:    c.decisions[components.BehaviorDrinking],
		DecResting:     c.decisions[components.BehaviorResting],
		DecSocializing: c.decisions[components.BehaviorSocializing],
		DecExploring:   c.decisions[components.BehaviorExploring],
		DecTerritorial: c.decisions[components.BehaviorTerritorial],
		DecBreeding:    c.decisions[components.BehaviorBreeding],
		DecMigrating:   c.decisions[components.BehaviorMigrating],
		DecParenting:   c.decisions[components.BehaviorParenting],

		FitnessMean: fitMean,
		FitnessStd:  fitStd,
		FitnessP10:  fitP10,
		FitnessP50:  fitP50,
		FitnessP90:  fitP90,

		SatisfactionMean: satMean,
		AggressionMean:   aggMean,
		AggressionStd:    aggStd,
		FertilityMean:    fertMean,
		FertilityStd:     fertStd,

		ActiveLineages: sample.ActiveLineages,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.decisions = [components.BehaviorCount]int{}
	c.matings = 0
	c.courtshipFailures = 0
	c.births = 0
	c.deaths = 0
	c.stagePromotions = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
