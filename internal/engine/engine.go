// Package engine runs the chunk lifecycle: landscape intents, storage
// commands, registry bookkeeping and mesh rebuilds, once per cycle.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"voxelengine/internal/config"
	"voxelengine/internal/events"
	"voxelengine/internal/landscape"
	"voxelengine/internal/pipeline"
	"voxelengine/internal/terrain"
	"voxelengine/internal/world"
)

// Engine owns the world, the landscape controller and the meshing pipeline.
// Cycle and the mutating methods are meant to be called from one goroutine;
// SetVoxel only queues and may be called from anywhere.
type Engine struct {
	cfg       *config.Config
	manager   *world.Manager
	landscape *landscape.Controller
	pipeline  *pipeline.Pipeline
	logger    *log.Logger

	loadRequests   *events.Queue[events.ChunkLoadRequested]
	unloadRequests *events.Queue[events.ChunkUnloadRequested]
	edits          *events.Queue[events.VoxelEdit]
	loaded         *events.Queue[events.ChunkLoaded]
	unloaded       *events.Queue[events.ChunkUnloaded]
	updated        *events.Queue[events.ChunkContentUpdated]
}

// CycleStats counts what one cycle did.
type CycleStats struct {
	LoadRequests   int
	UnloadRequests int
	Loaded         int
	Rejected       int
	Unloaded       int
	Edited         int
	Rebuild        pipeline.RebuildReport
}

// New wires an engine from cfg. A nil logger logs to the standard logger's
// output with an engine prefix.
func New(cfg *config.Config, observer landscape.Observer, sink pipeline.MeshSink, logger *log.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if logger == nil {
		logger = log.New(log.Writer(), "voxel-engine ", log.LstdFlags|log.Lmicroseconds)
	}

	generator := world.EmptyGenerator
	if cfg.Terrain.Enabled {
		generator = terrain.NewNoiseGenerator(cfg.Terrain)
	}
	storage := world.NewWorld()

	return &Engine{
		cfg:     cfg,
		manager: world.NewManager(storage, generator, logger),
		landscape: landscape.NewController(observer, landscape.Options{
			BeginOffset:       cfg.Landscape.BeginOffset,
			EndOffset:         cfg.Landscape.EndOffset,
			SyncInterval:      cfg.Landscape.SyncInterval.Duration(),
			Paused:            cfg.Landscape.Paused,
			MaxLoadsPerSecond: cfg.Landscape.MaxLoadsPerSecond,
			LoadBurst:         cfg.Landscape.LoadBurst,
		}, logger),
		pipeline: pipeline.New(storage, sink, cfg.Meshing.Workers, logger),
		logger:   logger,

		loadRequests:   events.NewQueue[events.ChunkLoadRequested](),
		unloadRequests: events.NewQueue[events.ChunkUnloadRequested](),
		edits:          events.NewQueue[events.VoxelEdit](),
		loaded:         events.NewQueue[events.ChunkLoaded](),
		unloaded:       events.NewQueue[events.ChunkUnloaded](),
		updated:        events.NewQueue[events.ChunkContentUpdated](),
	}, nil
}

func (e *Engine) World() *world.World {
	return e.manager.World()
}

func (e *Engine) Registry() *pipeline.Registry {
	return e.pipeline.Registry()
}

// Voxel reads a voxel from a loaded chunk.
func (e *Engine) Voxel(block world.BlockCoord) (world.Kind, error) {
	return e.manager.Voxel(block)
}

// SetVoxel queues a voxel write for the next cycle. The owning chunk must be
// loaded when the write is queued.
func (e *Engine) SetVoxel(block world.BlockCoord, kind world.Kind) error {
	coord, _ := world.LocateBlock(block)
	if !e.World().Contains(coord) {
		return fmt.Errorf("set voxel %v: chunk %v: %w", block, coord, world.ErrNotFound)
	}
	e.edits.Push(events.VoxelEdit{Block: block, Kind: kind})
	return nil
}

// RequestLoad queues chunk loads outside of the landscape controller.
func (e *Engine) RequestLoad(coords ...world.ChunkCoord) {
	e.loadRequests.Push(events.FromCoords[events.ChunkLoadRequested](coords)...)
}

// RequestUnload queues chunk unloads outside of the landscape controller.
func (e *Engine) RequestUnload(coords ...world.ChunkCoord) {
	e.unloadRequests.Push(events.FromCoords[events.ChunkUnloadRequested](coords)...)
}

func (e *Engine) SetPaused(paused bool) {
	e.landscape.SetPaused(paused)
}

func (e *Engine) Paused() bool {
	return e.landscape.Paused()
}

// Close stops the meshing workers.
func (e *Engine) Close() {
	e.pipeline.Close()
}

// Cycle runs every stage once, in order. delta advances the landscape resync
// countdown.
func (e *Engine) Cycle(ctx context.Context, delta time.Duration) CycleStats {
	var stats CycleStats

	intents := e.landscape.Update(delta, e.World().Coords())
	e.RequestUnload(intents.Unload...)
	e.RequestLoad(intents.Load...)

	unloadBatch := events.Coords(e.unloadRequests.Drain(0))
	stats.UnloadRequests = len(unloadBatch)
	unloaded := e.manager.Unload(unloadBatch)
	stats.Unloaded = len(unloaded)
	e.unloaded.Push(events.FromCoords[events.ChunkUnloaded](unloaded)...)

	loadBatch := events.Coords(e.loadRequests.Drain(0))
	stats.LoadRequests = len(loadBatch)
	loaded, rejected := e.manager.Load(ctx, loadBatch)
	stats.Loaded, stats.Rejected = len(loaded), len(rejected)
	e.landscape.Acknowledge(loaded)
	e.landscape.Release(rejected)
	e.loaded.Push(events.FromCoords[events.ChunkLoaded](loaded)...)

	editBatch := e.edits.Drain(0)
	edits := make([]world.Edit, len(editBatch))
	for i, edit := range editBatch {
		edits[i] = world.Edit{Block: edit.Block, Kind: edit.Kind}
	}
	touched := e.manager.Apply(edits)
	stats.Edited = len(editBatch)
	e.updated.Push(events.FromCoords[events.ChunkContentUpdated](touched)...)

	e.pipeline.Despawn(events.Coords(e.unloaded.Drain(0)))
	e.pipeline.Spawn(events.Coords(e.loaded.Drain(0)))
	e.pipeline.Invalidate(events.Coords(e.updated.Drain(0)))

	stats.Rebuild = e.pipeline.RebuildDirty(ctx, e.cfg.Meshing.MaxDirtyPerCycle)
	return stats
}

// Run drives Cycle from a ticker at the configured tick rate until ctx ends.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Engine.TickRate.Duration())
	defer ticker.Stop()

	e.logger.Printf("engine %s running at %v per cycle", e.cfg.Engine.ID, e.cfg.Engine.TickRate.Duration())
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case now := <-ticker.C:
			stats := e.Cycle(ctx, now.Sub(last))
			last = now
			if stats.Loaded > 0 || stats.Unloaded > 0 || stats.Rebuild.Requested > 0 {
				e.logger.Printf("cycle: loaded=%d unloaded=%d rejected=%d rebuilt=%d skipped=%d",
					stats.Loaded, stats.Unloaded, stats.Rejected, stats.Rebuild.Built, stats.Rebuild.Skipped)
			}
		}
	}
}
