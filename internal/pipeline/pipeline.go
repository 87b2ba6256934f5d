package pipeline

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"voxelengine/internal/events"
	"voxelengine/internal/world"
)

// Pipeline keeps one registry entry per loaded chunk and rebuilds chunk meshes
// through the occlusion, merging, vertices, mesh and clean-up stages.
type Pipeline struct {
	world    *world.World
	registry *Registry
	sink     MeshSink
	pool     pond.Pool
	dirty    *events.Queue[events.ChunkMeshDirty]
	closed   atomic.Bool
	logger   *log.Logger
}

// RebuildReport summarises a Rebuild call.
type RebuildReport struct {
	Requested int
	Built     int
	Skipped   int
	// Deferred counts chunks marked dirty again because the context ended.
	Deferred int
}

func New(w *world.World, sink MeshSink, workers int, logger *log.Logger) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if sink == nil {
		sink = DiscardSink{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		world:    w,
		registry: NewRegistry(),
		sink:     sink,
		pool:     pond.NewPool(workers),
		dirty:    events.NewQueue[events.ChunkMeshDirty](),
		logger:   logger,
	}
}

func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Close stops the stage worker pool. Later rebuilds are skipped.
func (p *Pipeline) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.pool.StopAndWait()
}

// Spawn creates registry entries for freshly loaded chunks, marks them dirty
// and returns them.
func (p *Pipeline) Spawn(coords []world.ChunkCoord) []world.ChunkCoord {
	dirty := make([]world.ChunkCoord, 0, len(coords))
	for _, coord := range coords {
		if _, err := p.registry.Spawn(coord); err != nil {
			p.logger.Printf("skipping spawn for chunk %v: %v", coord, err)
			continue
		}
		dirty = append(dirty, coord)
	}
	p.MarkDirty(dirty)
	return dirty
}

// Despawn drops the registry entries of unloaded chunks and releases their
// meshes. Coordinates without an entry are already gone.
func (p *Pipeline) Despawn(coords []world.ChunkCoord) {
	for _, coord := range coords {
		entry, ok := p.registry.Despawn(coord)
		if !ok {
			continue
		}
		if entry.Handle != uuid.Nil {
			p.sink.Release(coord, entry.Handle)
		}
	}
}

// Invalidate resets the build state of updated chunks, marks them dirty and
// returns them.
func (p *Pipeline) Invalidate(coords []world.ChunkCoord) []world.ChunkCoord {
	dirty := make([]world.ChunkCoord, 0, len(coords))
	for _, coord := range coords {
		entry, err := p.registry.lookup(coord)
		if err != nil {
			p.logger.Printf("skipping invalidation for chunk %v: %v", coord, err)
			continue
		}
		entry.resetBuild()
		dirty = append(dirty, coord)
	}
	p.MarkDirty(dirty)
	return dirty
}

// MarkDirty queues coordinates for the next RebuildDirty.
func (p *Pipeline) MarkDirty(coords []world.ChunkCoord) {
	p.dirty.Push(events.FromCoords[events.ChunkMeshDirty](coords)...)
}

// Dirty returns how many dirty events are queued.
func (p *Pipeline) Dirty() int {
	return p.dirty.Len()
}

// RebuildDirty drains up to max dirty events (0 drains all) and rebuilds them.
func (p *Pipeline) RebuildDirty(ctx context.Context, max int) RebuildReport {
	return p.Rebuild(ctx, events.Coords(p.dirty.Drain(max)))
}

// Rebuild runs every stage, in order, over the de-duplicated batch. A chunk
// that disappears from storage or the registry is logged and skipped without
// affecting the rest of the batch. Chunks left unbuilt because ctx ended are
// marked dirty again. Build buffers are always released.
func (p *Pipeline) Rebuild(ctx context.Context, coords []world.ChunkCoord) RebuildReport {
	batch := lo.Uniq(coords)
	report := RebuildReport{Requested: len(batch)}
	if len(batch) == 0 {
		return report
	}
	defer p.cleanUp(batch)

	if p.closed.Load() {
		p.logger.Printf("skipping rebuild of %d chunks: %v", len(batch), errPipelineClosed)
		report.Skipped = len(batch)
		return report
	}

	cancelled := make(map[world.ChunkCoord]struct{})
	p.runStage(ctx, "faces occlusion", batch, p.computeOcclusion, cancelled)
	p.runStage(ctx, "faces merging", batch, p.mergeFaces, cancelled)
	p.runStage(ctx, "vertices computation", batch, p.computeVertices, cancelled)
	built := p.runStage(ctx, "mesh generation", batch, p.generateMesh, cancelled)
	p.publish(built)

	deferred := make([]world.ChunkCoord, 0, len(cancelled))
	for _, coord := range batch {
		if _, ok := cancelled[coord]; !ok {
			continue
		}
		if _, ok := p.registry.Get(coord); ok {
			deferred = append(deferred, coord)
		}
	}
	p.MarkDirty(deferred)

	report.Built = len(built)
	report.Deferred = len(deferred)
	report.Skipped = report.Requested - report.Built - report.Deferred
	return report
}

type stageFunc func(coord world.ChunkCoord, entry *Entry) error

// runStage applies fn to every coordinate on the worker pool and returns the
// coordinates it succeeded for, in batch order. Coordinates not started
// because ctx ended are added to cancelled.
func (p *Pipeline) runStage(ctx context.Context, name string, batch []world.ChunkCoord, fn stageFunc, cancelled map[world.ChunkCoord]struct{}) []world.ChunkCoord {
	succeeded := make([]bool, len(batch))
	submitted := make([]world.ChunkCoord, 0, len(batch))
	tasks := make([]pond.Task, 0, len(batch))
	for i, coord := range batch {
		if err := ctx.Err(); err != nil {
			p.logger.Printf("skipping %s for chunk %v: %v", name, coord, err)
			cancelled[coord] = struct{}{}
			continue
		}
		entry, err := p.registry.lookup(coord)
		if err != nil {
			p.logger.Printf("skipping %s for chunk %v: %v", name, coord, err)
			continue
		}
		submitted = append(submitted, coord)
		tasks = append(tasks, p.pool.Submit(func() {
			if err := fn(coord, entry); err != nil {
				p.logger.Printf("skipping %s for chunk %v: %v", name, coord, err)
				return
			}
			succeeded[i] = true
		}))
	}
	// A stopped pool fails the task instead of running it.
	for j, task := range tasks {
		if err := task.Wait(); err != nil {
			p.logger.Printf("skipping %s for chunk %v: %v", name, submitted[j], err)
		}
	}

	done := make([]world.ChunkCoord, 0, len(batch))
	for i, ok := range succeeded {
		if ok {
			done = append(done, batch[i])
		}
	}
	return done
}

// cleanUp drops the intermediate buffers of every entry in batch.
func (p *Pipeline) cleanUp(batch []world.ChunkCoord) {
	for _, coord := range batch {
		if entry, ok := p.registry.Get(coord); ok {
			entry.resetBuild()
		}
	}
}

func (p *Pipeline) publish(built []world.ChunkCoord) {
	for _, coord := range built {
		entry, ok := p.registry.Get(coord)
		if !ok {
			continue
		}
		p.sink.Upload(Artifact{
			Coord:      coord,
			Handle:     entry.Handle,
			Generation: entry.Generation,
			Transform:  entry.Transform,
			Mesh:       entry.Mesh,
		})
	}
}

var (
	errMissingBuffer  = errors.New("build buffer missing")
	errPipelineClosed = errors.New("pipeline closed")
)
