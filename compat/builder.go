package compat

import (
	"fmt"

	"github.com/lixenwraith/flog"
)

// Default sources for loggers the builder derives from a registry
const (
	SourceGnet     = "gnet"
	SourceFastHTTP = "fasthttp"
	SourceFiber    = "fiber"
)

// Builder creates logger adapters for gnet, fasthttp and Fiber.
// An explicit logger is shared by every adapter; otherwise each adapter gets
// a logger from the registry named after its framework, so sinks can be
// routed per framework with Registry.Register.
type Builder struct {
	logger   *flog.Logger
	registry *flog.Registry
	err      error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger used by every adapter.
// If this is set WithRegistry is ignored.
func (b *Builder) WithLogger(l *flog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("flog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithRegistry sets the registry adapters take their loggers from.
// Without logger or registry a registry writing to the console is created.
func (b *Builder) WithRegistry(r *flog.Registry) *Builder {
	if r == nil {
		b.err = fmt.Errorf("flog/compat: provided registry cannot be nil")
		return b
	}
	b.registry = r
	return b
}

// getLogger resolves the logger for source, creating a registry if necessary
func (b *Builder) getLogger(source string) (*flog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	// Cache the registry for subsequent builds with this builder
	if b.registry == nil {
		b.registry = flog.NewRegistry(flog.NewConsoleSink())
	}
	return b.registry.Logger(source), nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger(SourceGnet)
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that keeps printf arguments as values
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	l, err := b.getLogger(SourceGnet)
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger(SourceFastHTTP)
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildFiber creates a Fiber adapter
func (b *Builder) BuildFiber(opts ...FiberOption) (*FiberAdapter, error) {
	l, err := b.getLogger(SourceFiber)
	if err != nil {
		return nil, err
	}
	return NewFiberAdapter(l, opts...), nil
}

// Registry returns the registry adapters log through, nil when only a logger was given
func (b *Builder) Registry() *flog.Registry {
	if b.logger != nil {
		return nil
	}
	if b.registry == nil && b.err == nil {
		b.registry = flog.NewRegistry(flog.NewConsoleSink())
	}
	return b.registry
}

// --- Example Usage ---
//
//	// 1. Create the application's registry with a rotating file sink
//	sink, err := filesink.NewBuilder().LevelString("debug").Build()
//	if err != nil { /* handle error */ }
//	reg := flog.NewRegistry(sink)
//	defer reg.Close()
//
//	// 2. Build the adapters from the registry
//	builder := compat.NewBuilder().WithRegistry(reg)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	// 3. Hand them to the frameworks
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
