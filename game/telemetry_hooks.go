package game

import (
	"log/slog"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	sample := g.samplePopulation()

	stats := g.collector.Flush(g.tick, sample)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// samplePopulation collects per-creature values for distribution stats.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	cfg := g.config()
	sample := telemetry.PopulationSample{
		SpeciesCount: make([]int, len(cfg.Species)),
	}

	query := g.creatureFilter.Query()
	for query.Next() {
		_, ident, genome, _, behavior, _, breeding := query.Get()

		sample.Population++
		sample.SpeciesCount[ident.SpeciesID]++

		switch breeding.Status {
		case components.BreedSeeking:
			sample.Seeking++
		case components.BreedMating:
			sample.Mating++
		case components.BreedPregnant:
			sample.Pregnant++
		case components.BreedCaring:
			sample.Caring++
		}

		sample.Fitness = append(sample.Fitness, float64(genome.Fitness))
		sample.Satisfaction = append(sample.Satisfaction, float64(behavior.Satisfaction))
		sample.Aggression = append(sample.Aggression, float64(genome.Aggression))
		sample.Fertility = append(sample.Fertility, float64(genome.Fertility))

		g.lineageTracker.UpdateFitness(ident.ID, genome.Fitness)
	}

	sample.ActiveLineages = g.lineageTracker.ActiveLineageCount()
	return sample
}
