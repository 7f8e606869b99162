package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/lixenwraith/flog/filesink"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[filelog]
  level = "debug"
  process_name = "simple"
  directory_pattern = "./simple_logs"
  filename_pattern = "{ProcessName}-{Timestamp:yyyyMMdd-HHmm}{Extension}"
  archive_directory_pattern = "./simple_logs/archive"
  write_interval_ms = 100
  archive_count = 3
  # Other settings use the filesink defaults
`

type orderService struct {
	log *flog.Logger
}

func (s *orderService) place(id int) error {
	s.log.Info("placing order {0}", id)
	if id%3 == 0 {
		err := errors.New("payment declined")
		s.log.ErrorWith(err, "order {0} failed", id)
		return err
	}
	return nil
}

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// Records logged before the file sink exists are buffered and handed over
	startup := flog.NewForwardingSink()
	reg := flog.NewRegistry(startup)
	defer func() {
		if err := reg.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Registry close error: %v\n", err)
		}
	}()

	log := reg.LoggerHere()
	log.Info("starting, pid {0}", os.Getpid())

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	_, err := reg.Install(func() (flog.Sink, error) {
		cfg, err := filesink.NewConfigFromFile(configFile)
		if err != nil {
			return nil, err
		}
		return filesink.New(cfg)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install file sink: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("File sink installed.")

	// Warnings from the audit source also go to the console
	console := flog.NewConsoleSink()
	reg.Register("audit", console, reg.Default())
	reg.Logger("audit").Warn("configuration loaded from {0}", configFile)

	// --- Logging ---
	svc := &orderService{}
	svc.log = reg.LoggerFor(svc)
	log.Debug("threshold is {0:%.2f}", 0.95)

	var wg sync.WaitGroup
	for i := 1; i <= 6; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			time.Sleep(time.Duration(id*20) * time.Millisecond)
			_ = svc.place(id)
		}(i)
	}
	wg.Wait()
	fmt.Println("Goroutines finished.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := reg.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}

	fmt.Println("--- Example Finished ---")
	fmt.Println("Check log files in './simple_logs'.")
}
