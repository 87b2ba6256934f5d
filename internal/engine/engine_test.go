package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxelengine/internal/config"
	"voxelengine/internal/landscape"
	"voxelengine/internal/pipeline"
	"voxelengine/internal/world"
)

type stubObserver struct {
	position mgl32.Vec3
	tracked  bool
}

func (o *stubObserver) Position() (mgl32.Vec3, bool) {
	return o.position, o.tracked
}

type recordingSink struct {
	mu       sync.Mutex
	uploads  []pipeline.Artifact
	releases []world.ChunkCoord
}

func (s *recordingSink) Upload(artifact pipeline.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, artifact)
}

func (s *recordingSink) Release(coord world.ChunkCoord, _ uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases = append(s.releases, coord)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Landscape.BeginOffset = 0
	cfg.Landscape.EndOffset = 0
	cfg.Meshing.Workers = 2
	cfg.Terrain.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config, observer landscape.Observer) (*Engine, *recordingSink, *bytes.Buffer) {
	t.Helper()
	sink := &recordingSink{}
	var logs bytes.Buffer
	eng, err := New(cfg, observer, sink, log.New(&logs, "", 0))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(eng.Close)
	return eng, sink, &logs
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.ID = ""
	if _, err := New(cfg, nil, nil, nil); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
	if _, err := New(nil, nil, nil, nil); err == nil {
		t.Fatalf("expected nil config to be rejected")
	}
}

func TestCycleLoadsAndMeshesObserverChunk(t *testing.T) {
	observer := &stubObserver{position: mgl32.Vec3{4, 4, 4}, tracked: true}
	eng, sink, _ := newTestEngine(t, testConfig(), observer)

	stats := eng.Cycle(context.Background(), 0)
	if stats.Loaded != 1 || stats.Rebuild.Built != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !eng.World().Contains(world.ChunkCoord{}) {
		t.Fatalf("expected observer chunk to be loaded")
	}
	if len(sink.uploads) != 1 || !sink.uploads[0].Mesh.IsEmpty() {
		t.Fatalf("expected one empty mesh upload, got %v", sink.uploads)
	}

	// No dirty input: the next cycle must not rebuild.
	stats = eng.Cycle(context.Background(), 10*time.Millisecond)
	if stats.Rebuild.Requested != 0 || len(sink.uploads) != 1 {
		t.Fatalf("expected an idle cycle, got %+v with %d uploads", stats, len(sink.uploads))
	}
}

func TestSetVoxelRebuildsOwningChunk(t *testing.T) {
	observer := &stubObserver{tracked: true}
	eng, sink, _ := newTestEngine(t, testConfig(), observer)
	eng.Cycle(context.Background(), 0)

	if err := eng.SetVoxel(world.BlockCoord{X: 100}, 1); !errors.Is(err, world.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unloaded chunk, got %v", err)
	}
	if err := eng.SetVoxel(world.BlockCoord{X: 5, Y: 5, Z: 5}, 1); err != nil {
		t.Fatalf("set voxel: %v", err)
	}
	if kind, _ := eng.Voxel(world.BlockCoord{X: 5, Y: 5, Z: 5}); kind != world.KindEmpty {
		t.Fatalf("queued edit must not apply before the next cycle")
	}

	stats := eng.Cycle(context.Background(), 0)
	if stats.Edited != 1 || stats.Rebuild.Built != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	last := sink.uploads[len(sink.uploads)-1]
	if last.Mesh.VertexCount() != 24 || last.Generation != 2 {
		t.Fatalf("expected a second generation single-voxel mesh, got %d vertices gen %d",
			last.Mesh.VertexCount(), last.Generation)
	}
	if kind, _ := eng.Voxel(world.BlockCoord{X: 5, Y: 5, Z: 5}); kind != 1 {
		t.Fatalf("expected edit to be applied, got %d", kind)
	}
}

func TestCancelledCycleStillMeshesEdit(t *testing.T) {
	eng, sink, _ := newTestEngine(t, testConfig(), nil)
	eng.RequestLoad(world.ChunkCoord{})
	eng.Cycle(context.Background(), 0)

	block := world.BlockCoord{X: 2, Y: 2, Z: 2}
	if err := eng.SetVoxel(block, 1); err != nil {
		t.Fatalf("set voxel: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := eng.Cycle(ctx, 0)
	if stats.Edited != 1 || stats.Rebuild.Built != 0 || stats.Rebuild.Deferred != 1 {
		t.Fatalf("unexpected cancelled cycle stats: %+v", stats)
	}
	if kind, _ := eng.Voxel(block); kind != 1 {
		t.Fatalf("expected the edit to be committed, got kind %d", kind)
	}

	stats = eng.Cycle(context.Background(), 0)
	if stats.Rebuild.Built != 1 {
		t.Fatalf("expected the edited chunk to be rebuilt, got %+v", stats)
	}
	last := sink.uploads[len(sink.uploads)-1]
	if last.Mesh.VertexCount() != 24 {
		t.Fatalf("expected the edited voxel in the mesh, got %d vertices", last.Mesh.VertexCount())
	}
}

func TestCycleAfterCloseReturns(t *testing.T) {
	eng, sink, _ := newTestEngine(t, testConfig(), nil)
	eng.RequestLoad(world.ChunkCoord{})
	eng.Close()

	done := make(chan CycleStats, 1)
	go func() { done <- eng.Cycle(context.Background(), 0) }()
	select {
	case stats := <-done:
		if stats.Loaded != 1 || stats.Rebuild.Skipped != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cycle after close did not return")
	}
	if len(sink.uploads) != 0 {
		t.Fatalf("expected no uploads after close, got %d", len(sink.uploads))
	}
}

func TestObserverMoveUnloadsAndReleases(t *testing.T) {
	observer := &stubObserver{tracked: true}
	eng, sink, _ := newTestEngine(t, testConfig(), observer)
	eng.Cycle(context.Background(), 0)

	observer.position = mgl32.Vec3{0, 0, -1}
	stats := eng.Cycle(context.Background(), 0)
	if stats.Unloaded != 1 || stats.Loaded != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if got := eng.World().Coords(); len(got) != 1 || got[0] != (world.ChunkCoord{Z: -1}) {
		t.Fatalf("unexpected loaded chunks %v", got)
	}
	if len(sink.releases) != 1 || sink.releases[0] != (world.ChunkCoord{}) {
		t.Fatalf("expected the old mesh to be released, got %v", sink.releases)
	}
	if _, ok := eng.Registry().Get(world.ChunkCoord{}); ok {
		t.Fatalf("expected registry entry of unloaded chunk to be removed")
	}
}

func TestUnloadWithInFlightDirtyIsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.Meshing.MaxDirtyPerCycle = 1
	eng, sink, logs := newTestEngine(t, cfg, nil)

	first, second := world.ChunkCoord{X: 1}, world.ChunkCoord{X: 2}
	eng.RequestLoad(first, second)
	stats := eng.Cycle(context.Background(), 0)
	if stats.Loaded != 2 || stats.Rebuild.Built != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	eng.RequestUnload(second)
	stats = eng.Cycle(context.Background(), 0)
	if stats.Unloaded != 1 || stats.Rebuild.Requested != 1 || stats.Rebuild.Skipped != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(sink.uploads) != 1 {
		t.Fatalf("expected the unloaded chunk not to be uploaded, got %d uploads", len(sink.uploads))
	}
	if eng.Registry().Len() != 1 {
		t.Fatalf("expected a single registry entry, got %d", eng.Registry().Len())
	}
	if logs.Len() == 0 {
		t.Fatalf("expected the skipped rebuild to be logged")
	}
}

func TestDuplicateLoadRequestIsRejected(t *testing.T) {
	eng, _, _ := newTestEngine(t, testConfig(), nil)
	coord := world.ChunkCoord{Y: -3}

	eng.RequestLoad(coord)
	eng.Cycle(context.Background(), 0)
	eng.RequestLoad(coord)
	stats := eng.Cycle(context.Background(), 0)
	if stats.Rejected != 1 || stats.Rebuild.Requested != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPausedLandscapeLoadsNothing(t *testing.T) {
	cfg := testConfig()
	cfg.Landscape.Paused = true
	observer := &stubObserver{tracked: true}
	eng, _, _ := newTestEngine(t, cfg, observer)

	if !eng.Paused() {
		t.Fatalf("expected engine to start paused")
	}
	eng.Cycle(context.Background(), time.Second)
	if eng.World().Len() != 0 {
		t.Fatalf("paused engine must not load chunks")
	}
	eng.SetPaused(false)
	eng.Cycle(context.Background(), 0)
	if eng.World().Len() != 1 {
		t.Fatalf("expected a chunk once unpaused, got %d", eng.World().Len())
	}
}

func TestTerrainFillsLoadedChunks(t *testing.T) {
	cfg := testConfig()
	cfg.Terrain.Enabled = true
	eng, sink, _ := newTestEngine(t, cfg, nil)

	eng.RequestLoad(world.ChunkCoord{})
	eng.Cycle(context.Background(), 0)
	if len(sink.uploads) != 1 || sink.uploads[0].Mesh.IsEmpty() {
		t.Fatalf("expected a non-empty terrain mesh")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.TickRate = config.Duration(time.Millisecond)
	observer := &stubObserver{tracked: true}
	eng, _, _ := newTestEngine(t, cfg, observer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for eng.Registry().Len() == 0 {
		select {
		case <-deadline:
			t.Fatalf("engine did not load the observer chunk")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
