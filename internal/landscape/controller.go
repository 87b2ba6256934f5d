// Package landscape decides which chunks should be resident around the
// observer and emits load and unload intents for the difference.
package landscape

import (
	"log"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"voxelengine/internal/query"
	"voxelengine/internal/world"
)

const DefaultSyncInterval = time.Second

// Observer reports the world position the landscape follows. ok is false
// while nothing is tracked, for example during startup.
type Observer interface {
	Position() (mgl32.Vec3, bool)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func() (mgl32.Vec3, bool)

func (f ObserverFunc) Position() (mgl32.Vec3, bool) { return f() }

type Options struct {
	BeginOffset  int
	EndOffset    int
	SyncInterval time.Duration
	Paused       bool
	// MaxLoadsPerSecond caps emitted loads; zero disables throttling.
	MaxLoadsPerSecond float64
	LoadBurst         int
}

// Intents is the outcome of one controller evaluation.
type Intents struct {
	Load   []world.ChunkCoord
	Unload []world.ChunkCoord
}

func (i Intents) Empty() bool {
	return len(i.Load) == 0 && len(i.Unload) == 0
}

// Controller tracks the observer chunk and the loads still in flight.
type Controller struct {
	observer Observer
	opts     Options
	logger   *log.Logger

	center    world.ChunkCoord
	hasCenter bool
	countdown time.Duration
	pending   map[world.ChunkCoord]struct{}
	backlog   bool
	paused    bool

	limiter *rate.Limiter
	now     func() time.Time
}

func NewController(observer Observer, opts Options, logger *log.Logger) *Controller {
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		observer: observer,
		opts:     opts,
		logger:   logger,
		pending:  make(map[world.ChunkCoord]struct{}),
		paused:   opts.Paused,
		now:      time.Now,
	}
	if opts.MaxLoadsPerSecond > 0 {
		burst := opts.LoadBurst
		if burst <= 0 {
			burst = int(math.Ceil(opts.MaxLoadsPerSecond))
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxLoadsPerSecond), burst)
	}
	return c
}

func (c *Controller) SetPaused(paused bool) { c.paused = paused }

func (c *Controller) Paused() bool { return c.paused }

// Pending returns how many emitted loads have not been acknowledged yet.
func (c *Controller) Pending() int { return len(c.pending) }

// Update advances the resync countdown by delta and, when the observer moved
// to another chunk or the countdown ran out, diffs the visible cube against
// loaded.
func (c *Controller) Update(delta time.Duration, loaded []world.ChunkCoord) Intents {
	if c.paused || c.observer == nil {
		return Intents{}
	}
	position, ok := c.observer.Position()
	if !ok {
		return Intents{}
	}
	center := world.ToChunkCoord(position)

	c.countdown -= delta
	moved := !c.hasCenter || center != c.center
	if !moved && c.countdown > 0 && !c.backlog {
		return Intents{}
	}
	c.center = center
	c.hasCenter = true
	c.countdown = c.opts.SyncInterval
	c.backlog = false

	visible := slices.Collect(query.Cube(center, c.opts.BeginOffset, c.opts.EndOffset))
	missing, stale := Diff(visible, loaded)

	intents := Intents{Unload: stale}
	for _, coord := range missing {
		if _, inFlight := c.pending[coord]; inFlight {
			continue
		}
		if c.limiter != nil && !c.limiter.AllowN(c.now(), 1) {
			c.backlog = true
			break
		}
		c.pending[coord] = struct{}{}
		intents.Load = append(intents.Load, coord)
	}

	if !intents.Empty() {
		c.logger.Printf("landscape around chunk %v: %d loads, %d unloads, %d pending",
			center, len(intents.Load), len(intents.Unload), len(c.pending))
	}
	return intents
}

// Diff splits visible and loaded into the coordinates to load (visible but
// not loaded) and to unload (loaded but not visible), preserving input order.
func Diff(visible, loaded []world.ChunkCoord) (load, unload []world.ChunkCoord) {
	return lo.Difference(visible, loaded)
}

// Acknowledge clears pending loads that completed.
func (c *Controller) Acknowledge(coords []world.ChunkCoord) {
	for _, coord := range coords {
		delete(c.pending, coord)
	}
}

// Release clears pending loads that were rejected so a later sync can
// request them again.
func (c *Controller) Release(coords []world.ChunkCoord) {
	for _, coord := range coords {
		delete(c.pending, coord)
	}
}
