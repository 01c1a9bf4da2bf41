// Package loader runs image reads and decodes on two worker pools and hands
// the finished textures back to a single consumer over a channel.
//
// Primary requests (the image the user is looking at) and Background
// requests (speculative thumbnails) use disjoint pools, so a burst of
// preloads never delays the foreground decode. Every dispatched request
// produces exactly one Result while the loader is open. There is no
// cancellation: the consumer ignores results it no longer needs.
package loader

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"glance/internal/decode"
	"glance/internal/errors"
	"glance/internal/log"
	"glance/internal/render"

	"golang.org/x/sync/semaphore"
)

// Priority selects the worker pool.
type Priority int

const (
	Primary Priority = iota
	Background
)

func (p Priority) String() string {
	switch p {
	case Primary:
		return "primary"
	case Background:
		return "background"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Target is either the native resolution or an exact thumbnail size.
type Target struct {
	Thumbnail bool
	Size      decode.Size
}

// Full requests the image at native resolution.
func Full() Target { return Target{} }

// Thumbnail requests the image resized to exactly w×h.
func Thumbnail(w, h int) Target {
	return Target{Thumbnail: true, Size: decode.Size{Width: w, Height: h}}
}

func (t Target) String() string {
	if !t.Thumbnail {
		return "full"
	}
	return fmt.Sprintf("thumbnail(%dx%d)", t.Size.Width, t.Size.Height)
}

func (t Target) decodeSize() *decode.Size {
	if !t.Thumbnail {
		return nil
	}
	size := t.Size
	return &size
}

// Request is one unit of work.
type Request struct {
	Path     string
	Priority Priority
	Target   Target
}

// Result is the outcome of one dispatched request. On success Texture holds
// one reference that now belongs to the receiver.
type Result struct {
	Path      string
	Priority  Priority
	Thumbnail bool
	Texture   *render.Texture
	Err       error
}

// OK reports whether the load succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Options tunes the loader. Zero values take the defaults.
type Options struct {
	PrimaryWorkers    int // default 2
	BackgroundWorkers int // default max(2, NumCPU-Reserve)
	Reserve           int // CPUs left for the UI when sizing the background pool
	ResultBuffer      int // result channel capacity, default 64

	// ReadFile defaults to os.ReadFile and Decode to decode.Decode.
	ReadFile func(path string) ([]byte, error)
	Decode   func(data []byte, target *decode.Size) (decode.PixelBuffer, error)
}

// DefaultBackgroundWorkers sizes the background pool from the CPU count.
func DefaultBackgroundWorkers(reserve int) int {
	return max(2, runtime.NumCPU()-reserve)
}

func (o Options) withDefaults() Options {
	if o.PrimaryWorkers <= 0 {
		o.PrimaryWorkers = 2
	}
	if o.BackgroundWorkers <= 0 {
		o.BackgroundWorkers = DefaultBackgroundWorkers(o.Reserve)
	}
	if o.ResultBuffer <= 0 {
		o.ResultBuffer = 64
	}
	if o.ReadFile == nil {
		o.ReadFile = os.ReadFile
	}
	if o.Decode == nil {
		o.Decode = decode.Decode
	}
	return o
}

// PoolStats are lifetime counters of one pool.
type PoolStats struct {
	Workers    int
	Dispatched int64
	Completed  int64
	Failed     int64
}

// Pending is the number of requests without a result yet.
func (s PoolStats) Pending() int64 {
	return s.Dispatched - s.Completed - s.Failed
}

// Stats reports both pools.
type Stats struct {
	Primary    PoolStats
	Background PoolStats
}

type pool struct {
	priority   Priority
	workers    int
	sem        *semaphore.Weighted
	dispatched atomic.Int64
	completed  atomic.Int64
	failed     atomic.Int64
}

func newPool(priority Priority, workers int) *pool {
	return &pool{priority: priority, workers: workers, sem: semaphore.NewWeighted(int64(workers))}
}

func (p *pool) stats() PoolStats {
	return PoolStats{
		Workers:    p.workers,
		Dispatched: p.dispatched.Load(),
		Completed:  p.completed.Load(),
		Failed:     p.failed.Load(),
	}
}

// Loader is the load dispatcher. Dispatch, Drain and Close are meant to be
// called from one consumer goroutine.
type Loader struct {
	host    render.Host
	opts    Options
	pools   [2]*pool
	results chan Result
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New starts a loader that creates textures on host.
func New(host render.Host, opts Options) *Loader {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		host:    host,
		opts:    opts,
		results: make(chan Result, opts.ResultBuffer),
		logger:  log.LogWithFields(log.F("component", "loader")),
		ctx:     ctx,
		cancel:  cancel,
	}
	l.pools[Primary] = newPool(Primary, opts.PrimaryWorkers)
	l.pools[Background] = newPool(Background, opts.BackgroundWorkers)

	l.logger.With(
		log.F("primary_workers", opts.PrimaryWorkers),
		log.F("background_workers", opts.BackgroundWorkers),
	).Debug("loader started")
	return l
}

// Dispatch schedules a read and decode of path on the pool for priority.
// It never blocks. Requests issued after Close are dropped with
// errors.ErrLoaderClosed.
func (l *Loader) Dispatch(path string, priority Priority, target Target) error {
	if priority != Primary && priority != Background {
		priority = Background
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.With(log.F("path", path)).Warn("dispatch after close ignored")
		return errors.ErrLoaderClosed
	}
	l.wg.Add(1)
	l.mu.Unlock()

	p := l.pools[priority]
	p.dispatched.Add(1)
	l.logger.With(log.F("path", path), log.F("priority", priority.String()), log.F("target", target.String())).Debug("dispatch")

	go l.run(p, Request{Path: path, Priority: priority, Target: target})
	return nil
}

func (l *Loader) run(p *pool, req Request) {
	defer l.wg.Done()

	if err := p.sem.Acquire(l.ctx, 1); err != nil {
		return
	}
	res := l.load(req)
	p.sem.Release(1)

	if res.Err != nil {
		p.failed.Add(1)
		l.logger.WithError(res.Err).With(log.F("path", req.Path), log.F("priority", req.Priority.String())).Warn("load failed")
	} else {
		p.completed.Add(1)
	}

	select {
	case l.results <- res:
	case <-l.ctx.Done():
		res.Texture.Release()
		return
	}
	l.host.RequestRepaint()
}

// load never panics; decoder panics become error results.
func (l *Loader) load(req Request) (res Result) {
	res = Result{Path: req.Path, Priority: req.Priority, Thumbnail: req.Target.Thumbnail}
	defer func() {
		if r := recover(); r != nil {
			res.Texture = nil
			res.Err = errors.NewDecodeError("decoder panic", "", errors.CorruptImage, errors.Newf("%v", r))
		}
	}()

	data, err := l.opts.ReadFile(req.Path)
	if err != nil {
		res.Err = errors.FromIO(req.Path, err)
		return res
	}
	pixels, err := l.opts.Decode(data, req.Target.decodeSize())
	if err != nil {
		res.Err = err
		return res
	}
	res.Texture = l.host.CreateTexture(render.TextureName(req.Path, req.Target.Thumbnail), pixels)
	return res
}

// Drain returns up to limit results that are ready, without blocking.
func (l *Loader) Drain(limit int) []Result {
	var out []Result
	for len(out) < limit {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
	return out
}

// Stats returns the pool counters.
func (l *Loader) Stats() Stats {
	return Stats{
		Primary:    l.pools[Primary].stats(),
		Background: l.pools[Background].stats(),
	}
}

// Close stops accepting work, abandons queued requests, waits for running
// decodes and releases every undelivered texture. It is idempotent.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()

	dropped := 0
	for {
		select {
		case r := <-l.results:
			r.Texture.Release()
			dropped++
		default:
			l.logger.With(log.F("dropped", dropped)).Debug("loader closed")
			return
		}
	}
}
