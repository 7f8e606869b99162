package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/lixenwraith/flog/filesink"
)

// Simulate rapid reconfiguration of a running file sink
func main() {
	var count atomic.Int64

	dir, err := os.MkdirTemp("", "flog-reconfig")
	if err != nil {
		fmt.Printf("Temp dir error: %v\n", err)
		return
	}

	sink, err := filesink.NewBuilder().
		ProcessName("reconfig").
		Directory(dir).
		Filename("{ProcessName}{Extension}").
		Build()
	if err != nil {
		fmt.Printf("Initial build error: %v\n", err)
		return
	}
	reg := flog.NewRegistry(sink)
	logger := reg.Logger("reconfig")

	// Log something constantly
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			logger.Info("Test log {0}", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Trigger multiple reconfigurations rapidly
	for i := 0; i < 10; i++ {
		cfg := sink.Config()
		err := filesink.ApplyOverride(cfg,
			fmt.Sprintf("max_buffer_bytes=%d", 1024*(i+1)),
			fmt.Sprintf("write_interval_ms=%d", 10+i*5),
		)
		if err == nil {
			err = sink.Configure(cfg)
		}
		if err != nil {
			fmt.Printf("Configure error: %v\n", err)
		}
		// Minimal delay between reconfigurations
		time.Sleep(10 * time.Millisecond)
	}

	close(stop)
	<-done
	fmt.Printf("Total records attempted: %d\n", count.Load())

	// Close drains everything that was accepted
	if err := reg.Close(); err != nil {
		fmt.Printf("Close error: %v\n", err)
	}
	stats := sink.Stats()
	fmt.Printf("Records written: %d, format failures: %d, write failures: %d\n",
		stats.RecordsWritten, stats.FormatFailures, stats.WriteFailures)
	fmt.Printf("Log file: %s\n", dir)
}
