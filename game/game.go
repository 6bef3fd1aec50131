package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/config"
	"github.com/kkingfung/Laboratory-sub000/systems"
	"github.com/kkingfung/Laboratory-sub000/telemetry"
)

// Options configures game initialization.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	// Entity mappers - using the 7 components a creature carries
	creatureMapper *ecs.Map7[
		components.Position,
		components.Identity,
		components.Genome,
		components.Needs,
		components.BehaviorState,
		components.Territory,
		components.Breeding,
	]
	creatureFilter *ecs.Filter7[
		components.Position,
		components.Identity,
		components.Genome,
		components.Needs,
		components.BehaviorState,
		components.Territory,
		components.Breeding,
	]

	// Individual component mappers for lookups
	posMap       *ecs.Map1[components.Position]
	identityMap  *ecs.Map1[components.Identity]
	genomeMap    *ecs.Map1[components.Genome]
	needsMap     *ecs.Map1[components.Needs]
	behaviorMap  *ecs.Map1[components.BehaviorState]
	territoryMap *ecs.Map1[components.Territory]
	breedingMap  *ecs.Map1[components.Breeding]

	// Spatial indexes, rebuilt every tick
	index        *systems.SpatialIndex // full population
	seekingIndex *systems.SpatialIndex // Seeking adults only

	// Flattened config, read-only after construction
	weightParams   systems.WeightParams
	needRates      systems.NeedRates
	breedingParams systems.BreedingParams

	parallel *parallelState
	queue    systems.MutationQueue // merged per-worker commands

	// Creature lookup by ID for serial command application
	byID map[uint32]ecs.Entity

	tick       int32
	nextID     uint32
	aliveCount int

	worldWidth  float32
	worldHeight float32

	rngSeed  uint64
	logStats bool

	collector      *telemetry.Collector
	perfCollector  *telemetry.PerfCollector
	lineageTracker *telemetry.LineageTracker
	outputManager  *telemetry.OutputManager
	statsCallback  func(telemetry.WindowStats)
}

// NewGame creates a game with the given options. Config must be
// initialized before calling.
func NewGame(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		world:   world,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		rngSeed: uint64(opts.Seed),
		creatureMapper: ecs.NewMap7[
			components.Position,
			components.Identity,
			components.Genome,
			components.Needs,
			components.BehaviorState,
			components.Territory,
			components.Breeding,
		](world),
		creatureFilter: ecs.NewFilter7[
			components.Position,
			components.Identity,
			components.Genome,
			components.Needs,
			components.BehaviorState,
			components.Territory,
			components.Breeding,
		](world),
		posMap:       ecs.NewMap1[components.Position](world),
		identityMap:  ecs.NewMap1[components.Identity](world),
		genomeMap:    ecs.NewMap1[components.Genome](world),
		needsMap:     ecs.NewMap1[components.Needs](world),
		behaviorMap:  ecs.NewMap1[components.BehaviorState](world),
		territoryMap: ecs.NewMap1[components.Territory](world),
		breedingMap:  ecs.NewMap1[components.Breeding](world),

		byID: make(map[uint32]ecs.Entity, cfg.Population.Initial),

		worldWidth:  float32(cfg.World.Width),
		worldHeight: float32(cfg.World.Height),

		weightParams:   systems.WeightParamsFromConfig(&cfg.Behavior),
		needRates:      systems.NeedRatesFromConfig(&cfg.Needs),
		breedingParams: systems.BreedingParamsFromConfig(&cfg.Breeding),

		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	capacityHint := cfg.Population.Initial
	g.index = systems.NewSpatialIndex(float32(cfg.Spatial.CellSize), capacityHint)
	g.seekingIndex = systems.NewSpatialIndex(float32(cfg.Spatial.CellSize), capacityHint/4)

	g.parallel = newParallelState()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.lineageTracker = telemetry.NewLineageTracker()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	g.seedPopulation()

	return g
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Population returns the number of living creatures.
func (g *Game) Population() int {
	return g.aliveCount
}

func (g *Game) config() *config.Config {
	return config.Cfg()
}

// simTime returns the current simulation time in seconds.
func (g *Game) simTime() float32 {
	return float32(g.tick) * g.config().Derived.DT32
}

// Close stops workers and flushes output files.
func (g *Game) Close() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
	}
}
