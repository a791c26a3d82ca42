package outwriter

import (
	"os"

	"github.com/huangsam/digger/internal/contract"
	"golang.org/x/term"
)

// getTerminalWidth returns the configured width, the detected terminal
// width, or 80 when neither is available.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxNameWidth calculates the maximum width for names in table output
// after reserving room for the other columns.
func getMaxNameWidth(cfg *contract.Config, reserved int) int {
	// Reserve generous space for table borders, separators, and padding
	available := getTerminalWidth(cfg) - reserved - 20
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// maxPeriodColumns is how many period columns fit next to the name column.
func maxPeriodColumns(cfg *contract.Config, cellWidth int) int {
	n := (getTerminalWidth(cfg) - 30) / (cellWidth + 3)
	return max(n, 1)
}
