package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jmain9906/mcodepool/mcode"
)

var (
	soakSizeKB    int
	soakWorkers   int
	soakMaxBlocks int
	soakDuration  time.Duration
)

func init() {
	cmd := newSoakCmd()
	cmd.Flags().IntVar(&soakSizeKB, "size-kb", 4096, "Pool capacity in KiB")
	cmd.Flags().IntVar(&soakWorkers, "workers", 4, "Concurrent workers")
	cmd.Flags().IntVar(&soakMaxBlocks, "max-blocks", 4, "Largest single grant in blocks")
	cmd.Flags().DurationVar(&soakDuration, "duration", 10*time.Second, "How long to run")
	rootCmd.AddCommand(cmd)
}

func newSoakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Hammer a pool from concurrent workers",
		Long: `The soak command runs several workers against one pool for a fixed
duration. Each worker loops acquiring a random run, stamping it, verifying the
stamp and releasing. Exhaustion is expected under pressure and only counted;
anything else a worker hits ends the run with an error.

Example:
  poolctl soak --workers 8 --duration 30s
  poolctl soak --size-kb 1024 --max-blocks 2 --duration 5s --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSoak()
		},
	}
	return cmd
}

func runSoak() error {
	if soakMaxBlocks < 1 {
		soakMaxBlocks = 1
	}
	if soakWorkers < 1 {
		soakWorkers = 1
	}

	pool, err := mcode.New(mcode.Config{
		SizeKB: soakSizeKB,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	printVerbose("Soaking %d blocks with %d workers for %s\n",
		pool.Blocks(), soakWorkers, soakDuration)

	ctx, cancel := context.WithTimeout(context.Background(), soakDuration)
	defer cancel()

	errCh := make(chan error, soakWorkers)
	var wg sync.WaitGroup
	for w := 0; w < soakWorkers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			if err := soakWorker(ctx, pool, w); err != nil {
				errCh <- err
			}
		}(w)
	}

	var bar *progressbar.ProgressBar
	secs := int64(soakDuration / time.Second)
	if !quiet && secs > 0 {
		bar = progressbar.Default(secs, "soaking")
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
	tick:
		for {
			select {
			case <-ctx.Done():
				break tick
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
		_ = bar.Finish()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		return err
	}

	stats := pool.Stats()
	if stats.UsedBlocks != 0 {
		return fmt.Errorf("%d blocks leaked", stats.UsedBlocks)
	}
	if jsonOut {
		return printJSON(stats)
	}
	printInfo("%s\n", stats)
	printInfo("Acquires: %d  releases: %d  exhaustions: %d  double releases: %d\n",
		stats.Acquires, stats.Releases, stats.Exhaustions, stats.DoubleReleases)
	return nil
}

// soakWorker loops until the context expires. Each grant gets a stamp in its
// first and last eight bytes, checked just before release to catch overlap.
func soakWorker(ctx context.Context, pool *mcode.Pool, id int) error {
	rng := rand.New(rand.NewSource(int64(id) + 1))
	var iter uint64
	for ctx.Err() == nil {
		iter++
		blocks := 1 + rng.Intn(soakMaxBlocks)
		mem, err := pool.Acquire(blocks*mcode.BlockSize, mcode.ProtRW)
		if errors.Is(err, mcode.ErrNoSpace) {
			continue
		}
		if err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}

		stamp := uint64(id)<<32 | iter
		binary.LittleEndian.PutUint64(mem, stamp)
		binary.LittleEndian.PutUint64(mem[len(mem)-8:], stamp)

		if got := binary.LittleEndian.Uint64(mem); got != stamp {
			return fmt.Errorf("worker %d: head stamp %x, want %x", id, got, stamp)
		}
		if got := binary.LittleEndian.Uint64(mem[len(mem)-8:]); got != stamp {
			return fmt.Errorf("worker %d: tail stamp %x, want %x", id, got, stamp)
		}
		if err := pool.Release(mem); err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
	}
	return nil
}
