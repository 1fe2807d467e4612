//go:build unix || windows

package main

import (
	"testing"
)

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name           string
		sizeKB         int
		wantErr        bool
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "single block pool",
			sizeKB:         64,
			wantContain:    []string{"Pool: 64 KiB usable in 1 blocks", "Range: 0x"},
			wantNotContain: []string{"Slack"},
		},
		{
			name:        "slack below one block",
			sizeKB:      96,
			wantContain: []string{"Pool: 64 KiB usable in 1 blocks", "Slack: 32 KiB"},
		},
		{
			name:        "json geometry",
			sizeKB:      1024,
			wantJSON:    true,
			wantContain: []string{"block_bytes", "65536", "\"blocks\": 16"},
		},
		{
			name:    "below one block",
			sizeKB:  32,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			infoSizeKB = tt.sizeKB

			output, err := captureOutput(t, runInfo)

			if (err != nil) != tt.wantErr {
				t.Errorf("runInfo() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}
