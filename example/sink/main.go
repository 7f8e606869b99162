package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/lixenwraith/flog/filesink"
)

const (
	logDirectory = "./temp_logs"
	logInterval  = 200 * time.Millisecond
)

// main walks through the sink types and swaps the default sink at runtime
func main() {
	// Ensure a clean state by removing the previous log directory.
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- Running Sink Walkthrough ---")
	fmt.Printf("! All file-based logs will be in the '%s' directory.\n\n", logDirectory)

	// --- Scenario 1: one registry per sink type ---
	fmt.Println("--- SCENARIO 1: Sinks in isolation ---")
	runPhase("1.1: File", mustFileSink("file_only"))
	runPhase("1.2: Console", flog.NewConsoleSink())
	fmt.Fprintln(os.Stderr, "\n---")
	runPhase("1.3: Stderr", flog.NewDebugSink())
	fmt.Fprintln(os.Stderr, "---")
	runPhase("1.4: Null (records are dropped)", flog.NewNullSink())

	// --- Scenario 2: replacing the default sink on a live registry ---
	fmt.Println("\n--- SCENARIO 2: Replacing the default sink ---")
	testReplacement()

	fmt.Println("\n--- Sink Walkthrough Complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}

func mustFileSink(name string) *filesink.FileSink {
	sink, err := filesink.NewBuilder().
		LevelString("verbose").
		ProcessName(name).
		Directory(logDirectory).
		Filename("{ProcessName}{Extension}").
		WriteInterval(50 * time.Millisecond).
		Build()
	if err != nil {
		fmt.Printf("  ERROR: Failed to create file sink: %v\n", err)
		os.Exit(1)
	}
	return sink
}

// runPhase logs through a fresh registry and closes it
func runPhase(phaseName string, sink flog.Sink) {
	fmt.Printf("\n[Phase %s]\n", phaseName)
	reg := flog.NewRegistry(sink)
	logger := reg.Logger("walkthrough")

	logger.Info("start_phase name={0}", phaseName)
	time.Sleep(logInterval)
	logger.Info("end_phase name={0}", phaseName)

	if err := reg.Close(); err != nil {
		fmt.Printf("  WARNING: Close error in phase '%s': %v\n", phaseName, err)
	}
}

// testReplacement swaps file, console and file again while logging continues
func testReplacement() {
	reg := flog.NewRegistry(mustFileSink("replace_log"))
	logger := reg.Logger("walkthrough")

	phases := []struct {
		name string
		next func() flog.Sink
	}{
		{"2.1: File", nil},
		{"2.2: Transition to console", func() flog.Sink { return flog.NewConsoleSink() }},
		{"2.3: Transition back to file", func() flog.Sink { return mustFileSink("replace_log") }},
	}

	for _, p := range phases {
		fmt.Printf("\n[Phase %s]\n", p.name)
		if p.next != nil {
			// The replaced file sink is closed and drained here
			if err := reg.ReplaceDefault(p.next()); err != nil {
				fmt.Printf("  WARNING: Replace error: %v\n", err)
			}
		}
		logger.Info("phase {0}", p.name)
		time.Sleep(logInterval)
	}

	fmt.Println("\n[Phase 2.4: Levels on the final sink]")
	logger.Debug("This is a debug message.")
	logger.Info("This is an info message.")
	logger.Warn("This is a warning message.")
	logger.Error("This is an error message.")

	if err := reg.Close(); err != nil {
		fmt.Printf("  WARNING: Close error: %v\n", err)
	}
}
