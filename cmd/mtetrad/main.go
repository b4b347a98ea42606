// Command mtetrad drives the L1 DSP core against a configured RadioIO
// backend in a loop, the ambient entrypoint a bare DSP core library
// still needs to run standalone (SPEC_FULL.md §1 [ADD]).
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/tejeez/mtetra/internal/bootstrap"
	"github.com/tejeez/mtetra/internal/radio"
)

func main() {
	configPath := pflag.StringP("config-file", "c", "mtetrad.yaml", "Configuration file path.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	help := pflag.BoolP("help", "h", false, "Display help text.")
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.Default()
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("fatal error", "err", err)
	}
}

func run(configPath string, logger *log.Logger) error {
	raiseSchedPriority(logger)

	built, err := bootstrap.Build(configPath, logger)
	if err != nil {
		return err
	}
	defer built.Core.Close()

	live, isLive := built.Radio.(*radio.Live)
	lastPTT := false
	for {
		if err := built.Core.Process(built.DefaultCallbacks); err != nil {
			return fmt.Errorf("processing sub-block: %w", err)
		}
		if isLive && built.Core.PTT() != lastPTT {
			lastPTT = built.Core.PTT()
			if err := live.SetPTT(lastPTT); err != nil {
				logger.Warn("failed to set ptt", "err", err)
			}
		}
	}
}

// raiseSchedPriority attempts to raise this process's scheduling
// priority so the OS is less likely to preempt the streaming loop for
// extended periods; failure is logged, not fatal (SPEC_FULL.md §5 [ADD]).
func raiseSchedPriority(logger *log.Logger) {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, -10); err != nil {
		logger.Warn("could not raise scheduling priority", "err", err)
	}
}
