package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/kkingfung/Laboratory-sub000/components"
)

// updateLifecycle ages every creature, promotes life stages, promotes
// available adults into Seeking, and removes creatures past their
// lifespan. Runs serially between ticks so breeding state transitions
// never race the parallel phases.
func (g *Game) updateLifecycle() {
	cfg := g.config()
	daysPerTick := cfg.Derived.DaysPerTick
	threshold := g.breedingParams.ReadinessThreshold

	type deadInfo struct {
		entity ecs.Entity
		id     uint32
	}
	var toRemove []deadInfo

	query := g.creatureFilter.Query()
	for query.Next() {
		entity := query.Entity()
		_, ident, _, _, _, _, breeding := query.Get()

		ident.AgeDays += daysPerTick
		if ident.AgeDays >= ident.MaxLifespan {
			toRemove = append(toRemove, deadInfo{entity: entity, id: ident.ID})
			continue
		}

		sp := &cfg.Species[ident.SpeciesID]
		stage := stageFor(ident.AgeDays, ident.MaxLifespan, sp)
		if stage != ident.Stage {
			ident.Stage = stage
			g.collector.RecordStagePromotion()

			// Aging out of adulthood withdraws a creature from the
			// mate pool unless it is already gestating or caring.
			if stage == components.StageElder {
				switch breeding.Status {
				case components.BreedSeeking, components.BreedNotReady:
					breeding.Status = components.BreedNotReady
					breeding.Readiness = 0
				}
			}
		}

		// Available adults enter the mate pool once readiness builds.
		// This also re-promotes creatures whose cooldown has expired.
		if ident.Stage == components.StageAdult &&
			breeding.Status == components.BreedNotReady &&
			breeding.Readiness >= threshold {
			breeding.Status = components.BreedSeeking
		}
	}

	// Remove after iteration completes
	for _, dead := range toRemove {
		if s := g.lineageTracker.Get(dead.id); s != nil {
			g.lineageTracker.UpdateSurvivalTime(dead.id, g.tick, cfg.Derived.DT32)
		}
		g.lineageTracker.Remove(dead.id)
		g.creatureMapper.Remove(dead.entity)
		delete(g.byID, dead.id)
		g.aliveCount--
		g.collector.RecordDeath()
	}

	if len(toRemove) > 0 && g.aliveCount == 0 {
		slog.Warn("population extinct", "tick", g.tick)
	}
}
