package xfer

import (
	"context"
	"sync"
	"sync/atomic"
)

// Engine drives one file transfer operation (a download or an upload)
// against a Transport. Create a fresh Engine per operation; it is safe
// to call Cancel from a different goroutine than the one running
// Download/Upload.
type Engine struct {
	transport Transport
	metrics   MetricsRecorder

	cancelled atomic.Bool
	alive     atomic.Bool

	mu            sync.Mutex
	cancelCurrent context.CancelFunc
}

// Option configures a new Engine.
type Option func(*Engine)

// WithTransport overrides the default net/http-backed Transport, e.g.
// with an S3 transport for s3:// locators.
func WithTransport(t Transport) Option {
	return func(e *Engine) { e.transport = t }
}

// WithMetrics attaches a MetricsRecorder. Without this option, engine
// activity is not recorded anywhere but the log.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine constructs an Engine ready for exactly one Download or
// Upload call.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		transport: newHTTPTransport(),
		metrics:   noopRecorder{},
	}
	e.alive.Store(true)

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Release marks the engine as destroyed from the caller's perspective.
// Any continuation still in flight will observe isAlive() == false at
// its next suspension boundary and surface DownloadFailed/UploadFailed,
// modeling the weak-reference-upgrade-fails path of spec.md §3/§5 in a
// language without manual object lifetime.
func (e *Engine) Release() {
	e.alive.Store(false)
}

func (e *Engine) isAlive() bool {
	return e.alive.Load()
}

// Cancel sets the monotonic cancellation flag and aborts whatever
// request is currently in flight. Idempotent: the second and later
// calls are no-ops.
func (e *Engine) Cancel() {
	if e.cancelled.Swap(true) {
		return
	}

	e.mu.Lock()
	cancel := e.cancelCurrent
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (e *Engine) isCancelled() bool {
	return e.cancelled.Load()
}

// withCancelScope runs fn with a context that Cancel() can abort,
// registering/clearing the cancel func around the call so only one
// request is ever "current" at a time.
func (e *Engine) withCancelScope(ctx context.Context, fn func(ctx context.Context) (*Response, error)) (*Response, error) {
	scoped, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.cancelCurrent = cancel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.cancelCurrent = nil
		e.mu.Unlock()
		cancel()
	}()

	return fn(scoped)
}

// scopedTransport wraps the engine's Transport so every request it
// issues is cancellable via Engine.Cancel.
type scopedTransport struct {
	engine *Engine
	inner  Transport
}

func (s *scopedTransport) Do(ctx context.Context, req TransportRequest) (*Response, error) {
	return s.engine.withCancelScope(ctx, func(scoped context.Context) (*Response, error) {
		return s.inner.Do(scoped, req)
	})
}

func (e *Engine) scoped() Transport {
	return &scopedTransport{engine: e, inner: e.transport}
}
