package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmain9906/mcodepool/cmd/poolwatch/logger"
	"github.com/jmain9906/mcodepool/mcode"
)

func main() {
	args := os.Args[1:]
	debugMode := false
	sizeKB := 4096
	seed := int64(1)

	// Scan the flags by hand; there are no positional args
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--debug", "-d":
			debugMode = true
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("poolwatch %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		case "--size-kb":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --size-kb needs a value")
				printUsage()
				os.Exit(1)
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad --size-kb value %q\n", args[i])
				os.Exit(1)
			}
			sizeKB = n
		case "--seed":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --seed needs a value")
				printUsage()
				os.Exit(1)
			}
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad --seed value %q\n", args[i])
				os.Exit(1)
			}
			seed = n
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown argument %q\n", arg)
			printUsage()
			os.Exit(1)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	logger.Info("starting poolwatch", "size_kb", sizeKB, "seed", seed, "debug", debugMode)

	// The pool logs into the same file; stderr belongs to the TUI
	pool, err := mcode.New(mcode.Config{SizeKB: sizeKB, Logger: logger.L})
	if err != nil {
		logger.Error("pool creation failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: cannot create %d KiB pool: %v\n", sizeKB, err)
		os.Exit(1)
	}

	m := NewModel(pool, seed)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		_ = pool.Close()
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			// Log error but don't fail - cleanup is best effort
			logger.Warn("error closing resources", "error", err)
		}
	}

	logger.Info("poolwatch exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: poolwatch [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'poolwatch --help' for more information.\n")
}

func printHelp() {
	fmt.Println("poolwatch - Live occupancy monitor for the block pool allocator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  poolwatch [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Creates a pool, runs a seeded churn workload against it and draws")
	fmt.Println("  the occupancy map live, one cell per 64 KiB block.")
	fmt.Println()
	fmt.Println("  Controls:")
	fmt.Println("    space       Pause/resume the workload")
	fmt.Println("    +/-         More/less churn per tick")
	fmt.Println("    a           Acquire one block by hand")
	fmt.Println("    r           Release the last hand grant")
	fmt.Println("    c           Copy the stats line to the clipboard")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  --size-kb N    Pool capacity in KiB (default 4096)")
	fmt.Println("  --seed N       Workload seed (default 1)")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.poolwatch/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  poolwatch")
	fmt.Println("  poolwatch --size-kb 1024 --seed 7")
	fmt.Println()
	fmt.Println("For scripted workloads, use the 'poolctl' command instead.")
}
