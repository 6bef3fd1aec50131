package telemetry

import "github.com/google/uuid"

// LineageStats tracks per-creature statistics over its lifetime.
type LineageStats struct {
	BirthTick       int32
	SurvivalTimeSec float32

	Lineage    uuid.UUID
	SpeciesID  uint8
	Generation uint16

	// Breeding
	MateAttempts int
	Matings      int
	Offspring    int

	PeakFitness float32
}

// LineageTracker manages per-creature lifetime statistics keyed by ID.
type LineageTracker struct {
	stats map[uint32]*LineageStats
}

// NewLineageTracker creates a new lineage tracker.
func NewLineageTracker() *LineageTracker {
	return &LineageTracker{
		stats: make(map[uint32]*LineageStats),
	}
}

// Register creates lifetime stats for a new creature.
func (lt *LineageTracker) Register(id uint32, birthTick int32, lineage uuid.UUID, speciesID uint8, generation uint16) {
	lt.stats[id] = &LineageStats{
		BirthTick:  birthTick,
		Lineage:    lineage,
		SpeciesID:  speciesID,
		Generation: generation,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LineageTracker) Get(id uint32) *LineageStats {
	return lt.stats[id]
}

// Remove removes a creature's stats and returns them for final logging.
func (lt *LineageTracker) Remove(id uint32) *LineageStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordMateAttempt increments mate attempt count.
func (lt *LineageTracker) RecordMateAttempt(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.MateAttempts++
	}
}

// RecordMating increments successful pairing count.
func (lt *LineageTracker) RecordMating(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Matings++
	}
}

// RecordOffspring increments offspring count for a parent.
func (lt *LineageTracker) RecordOffspring(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Offspring++
	}
}

// UpdateFitness tracks peak fitness.
func (lt *LineageTracker) UpdateFitness(id uint32, fitness float32) {
	if s := lt.stats[id]; s != nil {
		if fitness > s.PeakFitness {
			s.PeakFitness = fitness
		}
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LineageTracker) UpdateSurvivalTime(id uint32, currentTick int32, dt float32) {
	if s := lt.stats[id]; s != nil {
		s.SurvivalTimeSec = float32(currentTick-s.BirthTick) * dt
	}
}

// Count returns the number of tracked creatures.
func (lt *LineageTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of unique lineages among living creatures.
func (lt *LineageTracker) ActiveLineageCount() int {
	seen := make(map[uuid.UUID]struct{})
	for _, stats := range lt.stats {
		seen[stats.Lineage] = struct{}{}
	}
	return len(seen)
}
