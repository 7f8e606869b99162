package flog

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
	"github.com/sourcegraph/conc/panics"
)

// ErrNilSink is returned when a nil sink is installed
var ErrNilSink = errors.New("flog: sink cannot be nil")

// SinkFactory builds a sink; used instead of constructing sinks by type name
type SinkFactory func() (Sink, error)

// Registry owns the default sink and the per-source sink table. Applications
// create one and pass it (or Loggers derived from it) to their components.
type Registry struct {
	mu      sync.RWMutex
	def     Sink
	sources map[string][]Sink
	clock   *timecache.TimeCache
	closed  bool
}

// RegistryOption configures a Registry at construction
type RegistryOption func(*Registry)

// WithSources pre-registers sinks for a source name
func WithSources(source string, sinks ...Sink) RegistryOption {
	return func(r *Registry) {
		r.sources[source] = append(r.sources[source], sinks...)
	}
}

// NewRegistry creates a registry with def as the default sink. A nil def
// installs a NullSink.
func NewRegistry(def Sink, opts ...RegistryOption) *Registry {
	if def == nil {
		def = NewNullSink()
	}
	r := &Registry{
		def:     def,
		sources: make(map[string][]Sink),
		clock:   timecache.NewWithResolution(time.Millisecond),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) now() time.Time {
	return r.clock.CachedTime()
}

// Default returns the active default sink
func (r *Registry) Default() Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// ReplaceDefault installs next as the default sink. The old sink is told about
// its successor and then closed if it implements io.Closer; release happens
// even when notification panics.
func (r *Registry) ReplaceDefault(next Sink) error {
	if next == nil {
		return ErrNilSink
	}

	r.mu.Lock()
	old := r.def
	r.def = next
	r.mu.Unlock()

	if old == next {
		return nil
	}
	return release(old, next)
}

// Install builds a sink with factory and makes it the default
func (r *Registry) Install(factory SinkFactory) (Sink, error) {
	s, err := factory()
	if err != nil {
		return nil, fmtErrorf("sink factory failed: %w", err)
	}
	if err := r.ReplaceDefault(s); err != nil {
		return s, err
	}
	return s, nil
}

func release(old, next Sink) error {
	var pc panics.Catcher
	var err error

	pc.Try(func() { old.ReplacedWith(next) })
	if c, ok := old.(io.Closer); ok {
		pc.Try(func() { err = c.Close() })
	}
	if rec := pc.Recovered(); rec != nil {
		err = combineErrors(err, rec.AsError())
	}
	if err != nil {
		return fmtErrorf("releasing replaced sink: %w", err)
	}
	return nil
}

// Register routes a source name to specific sinks instead of the default
func (r *Registry) Register(source string, sinks ...Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source] = append(r.sources[source], sinks...)
}

// Deregister removes the routing for source and returns the sinks it used.
// The sinks are not closed.
func (r *Registry) Deregister(source string) []Sink {
	r.mu.Lock()
	defer r.mu.Unlock()
	sinks := r.sources[source]
	delete(r.sources, source)
	return sinks
}

// SinksFor returns the sinks registered for src, or the default sink
func (r *Registry) SinksFor(src *Source) []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if src != nil {
		if sinks, ok := r.sources[src.Name]; ok && len(sinks) > 0 {
			return sinks
		}
	}
	return []Sink{r.def}
}

// Logger returns a logger for a custom source name
func (r *Registry) Logger(name string) *Logger {
	return &Logger{reg: r, src: NewSource(name)}
}

// LoggerFor returns a logger whose source is the type of v
func (r *Registry) LoggerFor(v any) *Logger {
	return &Logger{reg: r, src: SourceOf(v)}
}

// LoggerHere returns a logger whose source is the calling package
func (r *Registry) LoggerHere() *Logger {
	return &Logger{reg: r, src: NewSource(caller(1).pkg)}
}

// all returns every distinct sink known to the registry
func (r *Registry) all() []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[Sink]struct{})
	sinks := []Sink{r.def}
	seen[r.def] = struct{}{}
	for _, list := range r.sources {
		for _, s := range list {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				sinks = append(sinks, s)
			}
		}
	}
	return sinks
}

// Flush drains every sink that buffers output
func (r *Registry) Flush(ctx context.Context) error {
	return flushSinks(ctx, r.all())
}

func flushSinks(ctx context.Context, sinks []Sink) error {
	var result error
	for _, s := range sinks {
		if f, ok := s.(Flusher); ok {
			result = combineErrors(result, f.Flush(ctx))
		}
	}
	return result
}

// Close releases all sinks and stops the registry clock. Safe to call more than once.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	var result error
	for _, s := range r.all() {
		if c, ok := s.(io.Closer); ok {
			result = combineErrors(result, c.Close())
		}
	}
	r.clock.Stop()
	return result
}
