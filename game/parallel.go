package game

import (
	"math"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/genetics"
	"github.com/kkingfung/Laboratory-sub000/systems"
)

// parallelThreshold is the minimum creature count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// crowdingNorm is the neighbor count treated as full crowding.
const crowdingNorm = 24

// creatureSnapshot captures read-only state for parallel processing.
type creatureSnapshot struct {
	Entity      ecs.Entity
	ID          uint32
	SpeciesID   uint8
	Stage       components.LifeStage
	AgeDays     float32
	MaxLifespan float32
	Pos         components.Position
	Genes       genetics.Genetics
	Summary     genetics.Summary
	Needs       components.Needs
	Behavior    components.BehaviorState
	Territory   components.Territory
	Breeding    components.Breeding
}

// intent captures computed outputs to apply after the parallel phase.
type intent struct {
	Behavior  components.BehaviorState
	Needs     components.Needs
	Territory components.Territory
	Pos       components.Position
	Decided   bool
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []systems.Candidate
	Shard     systems.IndexShard
	SeekShard systems.IndexShard
	Queue     systems.MutationQueue
}

// Work phases dispatched to the pool within a tick.
const (
	phaseIndexShards = iota
	phaseBehavior
)

// workChunk represents a range of creatures for a worker to process.
type workChunk struct {
	start, end int
	phase      int
	dt         float32
}

// parallelState holds resources for parallel tick computation.
type parallelState struct {
	snapshots  []creatureSnapshot
	intents    []intent
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Neighbors = make([]systems.Candidate, 0, 64)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]creatureSnapshot, 0, 512),
		intents:    make([]intent, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			switch chunk.phase {
			case phaseIndexShards:
				g.shardChunk(chunk.start, chunk.end, scratch)
			case phaseBehavior:
				g.behaviorChunk(chunk.start, chunk.end, scratch, chunk.dt)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// dispatch splits [0, n) into per-worker chunks and blocks until done.
func (g *Game) dispatch(n, phase int, dt float32) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end, phase: phase, dt: dt}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// buildSnapshots collects read-only creature state single-threaded.
func (g *Game) buildSnapshots() int {
	g.parallel.snapshots = g.parallel.snapshots[:0]

	query := g.creatureFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, ident, genome, needs, behavior, territory, breeding := query.Get()

		g.parallel.snapshots = append(g.parallel.snapshots, creatureSnapshot{
			Entity:      entity,
			ID:          ident.ID,
			SpeciesID:   ident.SpeciesID,
			Stage:       ident.Stage,
			AgeDays:     ident.AgeDays,
			MaxLifespan: ident.MaxLifespan,
			Pos:         *pos,
			Genes:       genome.Genetics,
			Summary:     genome.Summarize(),
			Needs:       *needs,
			Behavior:    *behavior,
			Territory:   *territory,
			Breeding:    *breeding,
		})
	}

	n := len(g.parallel.snapshots)
	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]intent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]
	return n
}

// rebuildIndexes rebuilds both spatial indexes from the snapshots. Key
// computation runs on the workers into per-worker shards; the merge into
// the shared maps is serial.
func (g *Game) rebuildIndexes(n int) {
	g.index.Reset()
	g.seekingIndex.Reset()

	if n < parallelThreshold {
		for i := range g.parallel.snapshots {
			snap := &g.parallel.snapshots[i]
			c := snap.candidate()
			g.index.Insert(c)
			if snap.seekable() {
				g.seekingIndex.Insert(c)
			}
		}
		return
	}

	// Shards are reset here, not in the chunk handler: chunk
	// distribution is demand-driven, so a worker may take several
	// chunks in one tick or none at all. Resetting per chunk would
	// drop earlier chunks; skipping an idle worker's shard would
	// merge last tick's entries back in.
	for i := range g.parallel.scratches {
		g.parallel.scratches[i].Shard.Reset()
		g.parallel.scratches[i].SeekShard.Reset()
	}

	g.dispatch(n, phaseIndexShards, 0)

	for i := range g.parallel.scratches {
		s := &g.parallel.scratches[i]
		g.index.Merge(&s.Shard)
		g.seekingIndex.Merge(&s.SeekShard)
	}
}

// shardChunk computes cell keys for a snapshot range into worker shards.
func (g *Game) shardChunk(i0, i1 int, scratch *workerScratch) {
	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		c := snap.candidate()
		scratch.Shard.Add(g.index, c)
		if snap.seekable() {
			scratch.SeekShard.Add(g.seekingIndex, c)
		}
	}
}

func (s *creatureSnapshot) candidate() systems.Candidate {
	return systems.Candidate{
		Entity:      s.Entity,
		ID:          s.ID,
		SpeciesID:   s.SpeciesID,
		Stage:       s.Stage,
		AgeDays:     s.AgeDays,
		MaxLifespan: s.MaxLifespan,
		Pos:         s.Pos,
		Genes:       s.Summary,
	}
}

// seekable reports whether the creature belongs in the mate query index.
func (s *creatureSnapshot) seekable() bool {
	return s.Stage == components.StageAdult && s.Breeding.Status == components.BreedSeeking
}

// wanderSpeed is units per second of drift for each behavior category.
var wanderSpeed = [components.BehaviorCount]float32{
	components.BehaviorIdle:        0,
	components.BehaviorForaging:    8,
	components.BehaviorDrinking:    8,
	components.BehaviorResting:     0,
	components.BehaviorSocializing: 5,
	components.BehaviorExploring:   16,
	components.BehaviorTerritorial: 4,
	components.BehaviorBreeding:    6,
	components.BehaviorMigrating:   22,
	components.BehaviorParenting:   3,
}

// behaviorChunk runs decision, execution, movement, and mate seeking for
// a snapshot range. Only snapshots, intents, and worker-owned scratch
// are written; shared state is read-only here.
func (g *Game) behaviorChunk(i0, i1 int, scratch *workerScratch, dt float32) {
	interval := float32(g.config().Behavior.DecisionInterval)
	now := g.simTime()

	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		out := &g.parallel.intents[i]
		rnd := newTickRand(g.rngSeed, snap.ID, g.tick)

		// Local conditions from the shared index (read-only)
		scratch.Neighbors = g.index.AppendNeighborhood(scratch.Neighbors[:0], snap.Pos)
		crowding := clamp32(float32(len(scratch.Neighbors))/crowdingNorm, 0, 1)
		env := systems.Environment{
			FoodAvailability:  1 - 0.6*crowding,
			WaterAvailability: 1 - 0.3*crowding,
			Crowding:          crowding,
		}

		in := systems.WeightInputs{
			Genes:        &snap.Genes,
			Needs:        &snap.Needs,
			Stage:        snap.Stage,
			Stress:       snap.Behavior.Stress,
			Satisfaction: snap.Behavior.Satisfaction,
			Caring:       snap.Breeding.Status == components.BreedCaring,
			Env:          env,
			Territory:    &snap.Territory,
		}

		out.Behavior = snap.Behavior
		d := systems.Decide(&snap.Behavior, in, g.weightParams, interval, now, rnd.uniform(), rnd.signed)
		if d.Changed {
			out.Behavior.Category = d.Category
			out.Behavior.Intensity = d.Intensity
			out.Behavior.Confidence = d.Confidence
			out.Behavior.LastDecision = now
		}
		out.Decided = d.Changed

		// Need progress and decay on the creature's own copies
		out.Needs = snap.Needs
		out.Territory = snap.Territory
		systems.Execute(&out.Behavior, &out.Needs, &out.Territory, g.needRates, dt)

		// Drift in a heading that changes slowly per creature
		speed := wanderSpeed[out.Behavior.Category] * out.Behavior.Intensity
		if speed > 0 {
			hr := newTickRand(g.rngSeed, snap.ID, g.tick>>7)
			heading := hr.uniform()*2*math.Pi + rnd.signed()*0.2
			out.Pos = components.Position{
				X: mod(snap.Pos.X+fastCos(heading)*speed*dt, g.worldWidth),
				Y: mod(snap.Pos.Y+fastSin(heading)*speed*dt, g.worldHeight),
				Z: snap.Pos.Z,
			}
		} else {
			out.Pos = snap.Pos
		}

		// Mate attempts read the Seeking-only index and queue commands
		scratch.Neighbors = systems.SeekMate(
			snap.candidate(), &snap.Breeding, out.Behavior.Category,
			snap.Territory.HasTerritory, g.seekingIndex,
			scratch.Neighbors, g.breedingParams, rnd.uniform(), &scratch.Queue,
		)
	}
}

// runBehavior executes the behavior phase single or multi threaded.
func (g *Game) runBehavior(n int, dt float32) {
	for i := range g.parallel.scratches {
		g.parallel.scratches[i].Queue.Reset()
	}

	if n < parallelThreshold {
		g.behaviorChunk(0, n, &g.parallel.scratches[0], dt)
		return
	}
	g.dispatch(n, phaseBehavior, dt)
}

// applyIntents writes computed results back to ECS components.
func (g *Game) applyIntents() {
	for i := range g.parallel.snapshots {
		snap := &g.parallel.snapshots[i]
		out := &g.parallel.intents[i]

		pos := g.posMap.Get(snap.Entity)
		behavior := g.behaviorMap.Get(snap.Entity)
		needs := g.needsMap.Get(snap.Entity)
		territory := g.territoryMap.Get(snap.Entity)
		if pos == nil || behavior == nil || needs == nil || territory == nil {
			continue
		}

		*pos = out.Pos
		*behavior = out.Behavior
		*needs = out.Needs
		*territory = out.Territory

		if out.Decided {
			g.collector.RecordDecision(out.Behavior.Category)
		}
	}
}

// mergeQueues gathers per-worker commands into the game queue.
func (g *Game) mergeQueues() {
	g.queue.Reset()
	for i := range g.parallel.scratches {
		g.queue.Merge(&g.parallel.scratches[i].Queue)
	}
}
