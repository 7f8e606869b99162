package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/lixenwraith/flog/filesink"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 10000
	numWorkers     = 500
	logsDir        = "./logs"
)

var levels = []flog.Level{
	flog.LevelDebug,
	flog.LevelInfo,
	flog.LevelWarn,
	flog.LevelError,
}

var logger *flog.Logger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		_ = logger.Log(level, "wkr={0} bst={1} seq={2:%04d} rnd={3} {4}",
			burstID%numWorkers, burstID, i, rand.Int63(), msg)
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")
	_ = os.RemoveAll(logsDir) // Clean previous run's logs

	// One file per second forces frequent rotation and archival
	sink, err := filesink.NewBuilder().
		LevelString("debug").
		ProcessName("stress_test").
		Directory(logsDir).
		Filename("{ProcessName}-{Timestamp:yyyyMMdd-HHmmss}{Extension}").
		Archive(logsDir+"/archive", "{ProcessName}-{Timestamp:yyyyMMdd-HHmmss}{Extension}").
		ArchiveCount(10).
		WriteInterval(50 * time.Millisecond).
		MaxBufferBytes(4 * 1024 * 1024).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create file sink: %v\n", err)
		os.Exit(1)
	}

	reg := flog.NewRegistry(sink)
	logger = reg.Logger("stress")
	fmt.Printf("File sink started. Logs will be written to: %s\n", logsDir)

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Check log directory size and file rotation.")
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec (enqueue): %.2f\n", logsPerSec)
	}
	fmt.Printf("Pending at end of test: %d\n", sink.Stats().Pending)

	// --- Shutdown ---
	fmt.Println("Closing registry (drains the queue and waits for archives)...")
	closeStart := time.Now()
	if err := reg.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Close error: %v\n", err)
	}

	stats := sink.Stats()
	fmt.Printf("Closed in %v\n", time.Since(closeStart).Round(time.Millisecond))
	fmt.Printf("Records written: %d (%d bytes)\n", stats.RecordsWritten, stats.BytesWritten)
	fmt.Printf("Archives: %d completed, %d failed\n", stats.ArchivesCompleted, stats.ArchivesFailed)
	fmt.Printf("Failures: %d format, %d write\n", stats.FormatFailures, stats.WriteFailures)
	fmt.Printf("Retained archives: %v\n", sink.ArchiveHistory())
}
