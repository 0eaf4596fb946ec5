package infra

import (
	"fmt"
	"strings"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
)

// PrintBanner displays the startup banner with mode-specific warnings.
func PrintBanner(cfg *Config) {
	mode := strings.ToUpper(cfg.Trading.Mode)

	color := colorCyan
	modeDesc := "INTERNAL SIMULATION"
	if cfg.IsLive() {
		color = colorRed
		modeDesc = "REAL MONEY TRADING"
	}

	fmt.Println()
	fmt.Printf("%s###########################################################%s\n", color, colorReset)
	fmt.Printf("%s#   trader: BTC/USD zone agent                            #%s\n", color, colorReset)
	fmt.Printf("%s#   MODE:    %-44s #%s\n", color, mode, colorReset)
	fmt.Printf("%s#   TYPE:    %-44s #%s\n", color, modeDesc, colorReset)
	fmt.Printf("%s#   VERSION: %-44s #%s\n", color, cfg.App.Version, colorReset)

	if cfg.IsLive() {
		fmt.Printf("%s#   WARNING: YOU ARE TRADING WITH REAL MONEY              #%s\n", colorRed, colorReset)
	}

	fmt.Printf("%s###########################################################%s\n", color, colorReset)
	fmt.Println()
}
