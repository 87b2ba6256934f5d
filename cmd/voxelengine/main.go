package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxelengine/internal/config"
	"voxelengine/internal/engine"
	"voxelengine/internal/pipeline"
	"voxelengine/internal/world"
)

func main() {
	var (
		cfgPath string
		speed   float64
	)
	flag.StringVar(&cfgPath, "config", "", "path to engine configuration file (.json, .yaml)")
	flag.Float64Var(&speed, "speed", 8, "observer flyby speed in voxels per second")
	flag.Parse()

	if _, err := writeConfigFromEnv(cfgPath); err != nil {
		log.Fatalf("sync config from environment: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.New(log.Writer(), "voxel-engine ", log.LstdFlags|log.Lmicroseconds)
	observer := newFlyby(float32(speed), cfg.Terrain.BaseHeight)
	eng, err := engine.New(cfg, observer, logSink{logger: logger}, logger)
	if err != nil {
		log.Fatalf("initialise engine: %v", err)
	}
	defer eng.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := eng.Run(ctx); err != nil {
		log.Fatalf("engine exited with error: %v", err)
	}
}

// flyby is an observer travelling along +X from its start time.
type flyby struct {
	start  time.Time
	speed  float32
	height float32
}

func newFlyby(speed float32, height int) *flyby {
	return &flyby{start: time.Now(), speed: speed, height: float32(height)}
}

func (f *flyby) Position() (mgl32.Vec3, bool) {
	elapsed := float32(time.Since(f.start).Seconds())
	return mgl32.Vec3{elapsed * f.speed, f.height, float32(math.Sin(float64(elapsed))) * 4}, true
}

// logSink stands in for a rendering backend.
type logSink struct {
	logger *log.Logger
}

func (s logSink) Upload(artifact pipeline.Artifact) {
	s.logger.Printf("upload chunk %v mesh %s gen %d: %d vertices, %d triangles",
		artifact.Coord, artifact.Handle, artifact.Generation,
		artifact.Mesh.VertexCount(), artifact.Mesh.TriangleCount())
}

func (s logSink) Release(coord world.ChunkCoord, handle uuid.UUID) {
	s.logger.Printf("release chunk %v mesh %s", coord, handle)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
