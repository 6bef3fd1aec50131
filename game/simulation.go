package game

import (
	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/systems"
	"github.com/kkingfung/Laboratory-sub000/telemetry"
)

// Step runs a single tick of the simulation.
func (g *Game) Step() {
	cfg := g.config()
	dt := cfg.Derived.DT32

	g.perfCollector.StartTick()

	// 1. Snapshot population and rebuild spatial indexes
	g.perfCollector.StartPhase(telemetry.PhaseIndexBuild)
	n := g.buildSnapshots()
	g.rebuildIndexes(n)

	// 2. Decisions, need execution, movement, mate attempts (parallel)
	g.perfCollector.StartPhase(telemetry.PhaseBehavior)
	if n > 0 {
		g.runBehavior(n, dt)
	}

	// 3. Serial apply: intents, then deferred cross-creature commands
	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.applyIntents()
	g.mergeQueues()
	g.applyMateCommands()

	// 4. Serial breeding timers: courtship, gestation, caring, cooldown
	g.perfCollector.StartPhase(telemetry.PhaseBreeding)
	g.advanceBreeding(dt)

	// 5. Aging, stage promotion, seeking promotion, deaths
	g.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	g.updateLifecycle()

	// 6. Factory drains queued births
	g.perfCollector.StartPhase(telemetry.PhaseBirths)
	g.spawnQueuedBirths()

	// 7. Telemetry window flush
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	g.tick++
}

// applyMateCommands resolves queued mate attempts serially. A pairing
// only lands if both creatures are still Seeking, so two competing
// commands for the same partner cannot both apply.
func (g *Game) applyMateCommands() {
	for _, cmd := range g.queue.Mates {
		seekerEnt, ok := g.byID[cmd.SeekerID]
		if !ok {
			continue
		}
		partnerEnt, ok := g.byID[cmd.PartnerID]
		if !ok {
			continue
		}

		seeker := g.breedingMap.Get(seekerEnt)
		partner := g.breedingMap.Get(partnerEnt)
		if seeker == nil || partner == nil {
			continue
		}
		if seeker.Status != components.BreedSeeking || partner.Status != components.BreedSeeking {
			continue
		}

		systems.BeginMating(seeker, cmd.PartnerID)
		systems.BeginMating(partner, cmd.SeekerID)

		g.collector.RecordMating()
		g.lineageTracker.RecordMateAttempt(cmd.SeekerID)
		g.lineageTracker.RecordMating(cmd.SeekerID)
		g.lineageTracker.RecordMating(cmd.PartnerID)
	}

	for _, fail := range g.queue.Failures {
		ent, ok := g.byID[fail.SeekerID]
		if !ok {
			continue
		}
		br := g.breedingMap.Get(ent)
		if br == nil || br.Status != components.BreedSeeking {
			continue
		}

		systems.FailCourtship(br, g.breedingParams)
		g.collector.RecordCourtshipFailure()
		g.lineageTracker.RecordMateAttempt(fail.SeekerID)
	}
}

// advanceBreeding runs the serial breeding timers for every creature.
// Pregnancies that come due queue one birth request per offspring.
func (g *Game) advanceBreeding(dt float32) {
	p := g.breedingParams

	query := g.creatureFilter.Query()
	for query.Next() {
		_, ident, genome, _, _, _, breeding := query.Get()

		systems.GainReadiness(breeding, dt, p)

		switch breeding.Status {
		case components.BreedSeeking:
			systems.TickAttemptPenalty(breeding, dt)
		case components.BreedMating:
			if systems.AdvanceCourtship(breeding, dt, p) {
				g.completeCourtship(ident, breeding)
			}
		case components.BreedPregnant:
			if systems.AdvanceGestation(breeding, dt, p) {
				g.queueBirths(ident, genome, breeding)
				systems.Deliver(breeding, p)
			}
		case components.BreedCaring:
			systems.AdvanceCaring(breeding, dt, p)
		case components.BreedCooldown:
			if systems.AdvanceCooldown(breeding, dt) {
				// Lifecycle re-promotes NotReady creatures to Seeking.
				breeding.Status = components.BreedNotReady
				breeding.Readiness = 0
				breeding.CourtshipAttempts = 0
			}
		}
	}
}

// completeCourtship is the Mating to Pregnant transition for a pair
// whose courtship finished this tick. The partner with the smaller ID
// gestates; the other goes straight into cooldown. Both partners reach
// full progress in the same tick, so only the first one seen acts.
func (g *Game) completeCourtship(ident *components.Identity, br *components.Breeding) {
	partnerEnt, ok := g.byID[br.PartnerID]
	if !ok {
		// Partner died mid-courtship
		systems.EndMating(br, g.breedingParams)
		return
	}
	partner := g.breedingMap.Get(partnerEnt)
	if partner == nil || partner.Status != components.BreedMating || partner.PartnerID != ident.ID {
		systems.EndMating(br, g.breedingParams)
		return
	}

	mother, father := br, partner
	if ident.ID > br.PartnerID {
		mother, father = partner, br
	}

	cfg := g.config()
	sp := &cfg.Species[ident.SpeciesID]
	count := sp.OffspringMin
	if sp.OffspringMax > sp.OffspringMin {
		count += g.rng.Intn(sp.OffspringMax - sp.OffspringMin + 1)
	}

	systems.Conceive(mother, uint8(count))
	systems.EndMating(father, g.breedingParams)
}

// queueBirths blends parent genetics and enqueues one birth request per
// expected offspring. If the father died during gestation the mother's
// genome stands in for both parents.
func (g *Game) queueBirths(ident *components.Identity, genome *components.Genome, br *components.Breeding) {
	motherGenes := &genome.Genetics
	fatherGenes := motherGenes
	if fatherEnt, ok := g.byID[br.PartnerID]; ok {
		if fg := g.genomeMap.Get(fatherEnt); fg != nil {
			fatherGenes = &fg.Genetics
		}
	}

	motherEnt, ok := g.byID[ident.ID]
	if !ok {
		return
	}
	pos := g.posMap.Get(motherEnt)
	if pos == nil {
		return
	}
	jitter := float32(g.config().Breeding.MutationJitter)

	for i := uint8(0); i < br.ExpectedOffspring; i++ {
		g.queue.Births = append(g.queue.Births, systems.BirthRequest{
			MotherID:   ident.ID,
			FatherID:   br.PartnerID,
			SpeciesID:  ident.SpeciesID,
			Generation: ident.Generation + 1,
			Lineage:    ident.Lineage,
			Pos:        *pos,
			Genes:      g.blendOffspring(motherGenes, fatherGenes, jitter),
		})
	}
}
