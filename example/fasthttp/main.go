package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/lixenwraith/flog/compat"
	"github.com/lixenwraith/flog/filesink"
	"github.com/valyala/fasthttp"
)

func main() {
	sink, err := filesink.NewBuilder().
		Directory("/var/log/fasthttp").
		Level(flog.LevelInfo).
		MaxBufferBytes(2 * 1024 * 1024).
		Build()
	if err != nil {
		panic(err)
	}
	reg := flog.NewRegistry(sink)
	defer reg.Close()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		reg.Logger(compat.SourceFastHTTP),
		compat.WithDefaultLevel(flog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)
	access := reg.Logger("access")

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			requestHandler(ctx)
			access.Info("{0} {1} {2}", string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode())
		},
		Logger: fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) flog.Level {
	// Known fasthttp message patterns first
	if strings.Contains(msg, "connection cannot be served") {
		return flog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return flog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
