package mandelbulb

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// Probe evaluates the distance estimator over batches of points on a pool of reusable workers.
// It only ever reads a Params value copy, so it can run beside the frame thread.
type Probe struct {
	// pool holds a bounded set of goroutines that persist across batches until Close.
	pool      worker.DynamicWorkerPool
	workers   int
	chunkSize int

	closed    atomic.Bool
	closeOnce sync.Once
}

// ErrProbeClosed is returned by batches submitted after Close.
var ErrProbeClosed = errors.New("mandelbulb: probe is closed")

// ProbeOption is a functional option for configuring a Probe.
type ProbeOption func(*Probe)

// WithProbeWorkers sets the maximum number of pool workers. Values below 1 are ignored.
//
// Parameters:
//   - workers: the maximum worker count
//
// Returns:
//   - ProbeOption: functional option to set the worker count
func WithProbeWorkers(workers int) ProbeOption {
	return func(p *Probe) {
		if workers > 0 {
			p.workers = workers
		}
	}
}

// WithProbeChunkSize sets how many points each submitted task evaluates. Values below 1 are ignored.
//
// Parameters:
//   - size: points per task
//
// Returns:
//   - ProbeOption: functional option to set the chunk size
func WithProbeChunkSize(size int) ProbeOption {
	return func(p *Probe) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// NewProbe creates a Probe backed by a dynamic worker pool sized to the machine.
// The pool's workers stay parked between batches; call Close to release them.
//
// Parameters:
//   - options: functional options to configure the probe
//
// Returns:
//   - *Probe: the newly created probe
func NewProbe(options ...ProbeOption) *Probe {
	p := &Probe{
		workers:   max(runtime.NumCPU()-1, 1),
		chunkSize: 256,
	}
	for _, opt := range options {
		opt(p)
	}
	p.pool = worker.NewDynamicWorkerPool(p.workers, 256, 1*time.Second)
	return p
}

// Distances evaluates params.EstimatedDistance at every point. Results are index-aligned with points.
// Each task writes a disjoint range of the result slice, so no locking is needed.
//
// Parameters:
//   - ctx: cancels the batch; chunks not yet started are skipped
//   - params: the estimator configuration
//   - points: the sample points
//
// Returns:
//   - []float32: one distance per point
//   - error: ctx.Err() if the batch was cancelled, ErrProbeClosed after Close
func (p *Probe) Distances(ctx context.Context, params Params, points []mgl32.Vec3) ([]float32, error) {
	if p.closed.Load() {
		return nil, ErrProbeClosed
	}
	out := make([]float32, len(points))

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(points); start += p.chunkSize {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		end := min(start+p.chunkSize, len(points))
		chunk := points[start:end]
		dst := out[start:end]

		wg.Add(1)
		id := taskID
		taskID++
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i, pt := range chunk {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					dst[i] = params.EstimatedDistance(pt)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close stops the pool's workers. It must not overlap a running batch.
// Later batches fail with ErrProbeClosed. Safe to call more than once.
func (p *Probe) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.pool.Stop()
	})
}

// Nearest finds the point closest to the surface.
//
// Parameters:
//   - ctx: cancels the batch
//   - params: the estimator configuration
//   - points: the sample points
//
// Returns:
//   - int: the index of the nearest point, or -1 when points is empty
//   - float32: its estimated distance
//   - error: ctx.Err() if the batch was cancelled
func (p *Probe) Nearest(ctx context.Context, params Params, points []mgl32.Vec3) (int, float32, error) {
	distances, err := p.Distances(ctx, params, points)
	if err != nil {
		return -1, 0, err
	}
	best, bestDist := -1, DistanceSentinel
	for i, d := range distances {
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return -1, 0, nil
	}
	return best, bestDist, nil
}

// SliceGrid returns a row-major resolution×resolution grid of points on the plane z = depth,
// spanning [-extent, extent] on x and y. Useful for inspecting a cross-section of the field.
//
// Parameters:
//   - resolution: samples per side (at least 2)
//   - extent: half-width of the square
//   - depth: the z coordinate of the plane
//
// Returns:
//   - []mgl32.Vec3: the grid points
func SliceGrid(resolution int, extent, depth float32) []mgl32.Vec3 {
	resolution = max(resolution, 2)
	step := 2 * extent / float32(resolution-1)
	points := make([]mgl32.Vec3, 0, resolution*resolution)
	for row := range resolution {
		y := extent - float32(row)*step
		for col := range resolution {
			x := -extent + float32(col)*step
			points = append(points, mgl32.Vec3{x, y, depth})
		}
	}
	return points
}
