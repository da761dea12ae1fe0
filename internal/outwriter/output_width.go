package outwriter

import (
	"os"

	"github.com/seamosgenios/panel/internal/contract"
	"golang.org/x/term"
)

// Name column bounds.
const (
	minNameWidth = 15
	maxNameWidth = 45
)

// terminalWidth returns the width override, the detected terminal width or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // CI and pipes
	}
	return detected
}

// getMaxNameWidth returns how many runes a student name may take in a table whose other
// columns need fixedWidth characters, borders and padding included.
func getMaxNameWidth(cfg *contract.Config, fixedWidth int) int {
	available := terminalWidth(cfg) - fixedWidth
	return min(max(available, minNameWidth), maxNameWidth)
}
