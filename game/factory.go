package game

import (
	"github.com/google/uuid"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/config"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// seedPopulation creates the starting creatures, spread across the
// configured species with randomized genetics and ages.
func (g *Game) seedPopulation() {
	cfg := g.config()

	for i := 0; i < cfg.Population.Initial; i++ {
		speciesID := uint8(i % len(cfg.Species))
		sp := &cfg.Species[speciesID]

		pos := components.Position{
			X: g.rng.Float32() * g.worldWidth,
			Y: g.rng.Float32() * g.worldHeight,
		}
		genes := genetics.NewRandom(g.rng)

		// Seed with a spread of ages so the population does not breed
		// or die in lockstep.
		ageDays := g.rng.Float32() * float32(sp.LifespanDays) * 0.6

		g.spawnCreature(pos, speciesID, genes, 0, uuid.New(), ageDays)
	}
}

// spawnCreature creates one creature entity and registers it.
func (g *Game) spawnCreature(pos components.Position, speciesID uint8, genes genetics.Genetics, generation uint16, lineage uuid.UUID, ageDays float32) {
	cfg := g.config()
	sp := &cfg.Species[speciesID]

	id := g.nextID
	g.nextID++

	// Lifespan varies a little per individual, scaled by size
	lifespan := float32(sp.LifespanDays) * (0.9 + 0.2*g.rng.Float32()) * (1 + 0.1*(genes.Size-0.5))

	ident := components.Identity{
		ID:          id,
		SpeciesID:   speciesID,
		Generation:  generation,
		Lineage:     lineage,
		AgeDays:     ageDays,
		Stage:       stageFor(ageDays, lifespan, sp),
		MaxLifespan: lifespan,
	}
	genome := components.Genome{Genetics: genes}

	// Newborns start mostly satisfied; seeds get some spread
	var needs components.Needs
	var arr [components.NeedCount]float32
	for i := range arr {
		arr[i] = 0.6 + 0.4*g.rng.Float32()
	}
	needs.Set(arr)

	behavior := components.BehaviorState{
		Category:     components.BehaviorIdle,
		Intensity:    0.2,
		Satisfaction: needs.Overall(),
		// Desync first decisions across the population
		LastDecision: g.simTime() - g.rng.Float32()*float32(cfg.Behavior.DecisionInterval),
	}
	territory := components.Territory{Radius: float32(sp.TerritoryRadius)}
	breeding := components.Breeding{Status: components.BreedNotReady}

	entity := g.creatureMapper.NewEntity(&pos, &ident, &genome, &needs, &behavior, &territory, &breeding)
	g.byID[id] = entity
	g.aliveCount++

	g.lineageTracker.Register(id, g.tick, lineage, speciesID, generation)
	g.lineageTracker.UpdateFitness(id, genes.Fitness)
}

// blendOffspring produces a child genome from two parents: trait
// midpoint plus bounded mutation jitter, clamped to the unit range.
func (g *Game) blendOffspring(mother, father *genetics.Genetics, jitter float32) genetics.Genetics {
	return genetics.Blend(mother, father, jitter, g.rng)
}

// spawnQueuedBirths drains the birth queue, honoring the population cap.
func (g *Game) spawnQueuedBirths() {
	if len(g.queue.Births) == 0 {
		return
	}
	cfg := g.config()

	for _, b := range g.queue.Births {
		if g.aliveCount >= cfg.Population.Max {
			break
		}

		// Offspring appear next to the mother with a small scatter
		pos := components.Position{
			X: mod(b.Pos.X+(g.rng.Float32()-0.5)*4, g.worldWidth),
			Y: mod(b.Pos.Y+(g.rng.Float32()-0.5)*4, g.worldHeight),
			Z: b.Pos.Z,
		}

		g.spawnCreature(pos, b.SpeciesID, b.Genes, b.Generation, b.Lineage, 0)
		g.collector.RecordBirth()
		g.lineageTracker.RecordOffspring(b.MotherID)
		g.lineageTracker.RecordOffspring(b.FatherID)
	}
	g.queue.Births = g.queue.Births[:0]
}

// stageFor maps an age onto a life stage using species fractions.
func stageFor(ageDays, lifespan float32, sp *config.SpeciesConfig) components.LifeStage {
	ratio := ageDays / lifespan
	switch {
	case ratio < float32(sp.JuvenileFraction):
		return components.StageEmbryo
	case ratio < float32(sp.AdultFraction):
		return components.StageJuvenile
	case ratio < float32(sp.ElderFraction):
		return components.StageAdult
	default:
		return components.StageElder
	}
}
