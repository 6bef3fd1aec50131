package systems

import (
	"github.com/google/uuid"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// MateCommand pairs two creatures after a successful mate attempt. The
// serial apply phase moves both into Mating with reciprocal partners.
type MateCommand struct {
	SeekerID  uint32
	PartnerID uint32
}

// CourtshipFailure records a failed mate attempt for the seeker.
type CourtshipFailure struct {
	SeekerID uint32
}

// BirthRequest asks the factory for one offspring. Genes are already
// blended; the factory assigns identity and placement.
type BirthRequest struct {
	MotherID   uint32
	FatherID   uint32
	SpeciesID  uint8
	Generation uint16
	Lineage    uuid.UUID
	Pos        components.Position
	Genes      genetics.Genetics
}

// MutationQueue collects structural changes produced during the
// parallel phases. Workers each own one queue and never share it; the
// queues are merged and drained serially after the parallel phases
// finish, so no entity mutation ever races a query.
type MutationQueue struct {
	Mates    []MateCommand
	Failures []CourtshipFailure
	Births   []BirthRequest
}

// Reset empties the queue keeping its capacity.
func (q *MutationQueue) Reset() {
	q.Mates = q.Mates[:0]
	q.Failures = q.Failures[:0]
	q.Births = q.Births[:0]
}

// Len returns the number of queued commands across all kinds.
func (q *MutationQueue) Len() int {
	return len(q.Mates) + len(q.Failures) + len(q.Births)
}

// Merge appends the contents of the given queues into q.
func (q *MutationQueue) Merge(others ...*MutationQueue) {
	for _, o := range others {
		q.Mates = append(q.Mates, o.Mates...)
		q.Failures = append(q.Failures, o.Failures...)
		q.Births = append(q.Births, o.Births...)
	}
}
