package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmain9906/mcodepool/mcode"
)

var (
	infoSizeKB int
)

func init() {
	cmd := newInfoCmd()
	cmd.Flags().IntVar(&infoSizeKB, "size-kb", 16384, "Pool capacity in KiB")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report the geometry a pool capacity produces",
		Long: `The info command reserves a pool of the requested capacity and reports
its geometry: block count, usable bytes, alignment slack and the address range
the reservation landed on. The pool is torn down before the command returns, so
this doubles as a check that the capacity is actually reservable here.

Example:
  poolctl info --size-kb 16384
  poolctl info --size-kb 1024 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	return cmd
}

type poolInfo struct {
	SizeKB     int    `json:"size_kb"`
	PoolBytes  int    `json:"pool_bytes"`
	BlockBytes int    `json:"block_bytes"`
	Blocks     int    `json:"blocks"`
	SlackKB    int    `json:"slack_kb"`
	Base       string `json:"base"`
	Limit      string `json:"limit"`
}

func runInfo() error {
	printVerbose("Reserving %d KiB pool\n", infoSizeKB)

	pool, err := mcode.New(mcode.Config{
		SizeKB: infoSizeKB,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	info := poolInfo{
		SizeKB:     infoSizeKB,
		PoolBytes:  pool.Size(),
		BlockBytes: mcode.BlockSize,
		Blocks:     pool.Blocks(),
		SlackKB:    infoSizeKB - pool.Blocks()*mcode.BlockKB,
		Base:       fmt.Sprintf("%#x", pool.Base()),
		Limit:      fmt.Sprintf("%#x", pool.Limit()),
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("Pool: %d KiB usable in %d blocks of %d KiB\n",
		info.PoolBytes/1024, info.Blocks, mcode.BlockKB)
	if info.SlackKB > 0 {
		printInfo("Slack: %d KiB below one block, unusable\n", info.SlackKB)
	}
	printInfo("Range: %s..%s\n", info.Base, info.Limit)
	return nil
}
