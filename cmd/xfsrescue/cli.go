package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vorteil/xfsrescue/pkg/elog"
)

// addPatternFlag attaches the shared -P/--pattern glob flag to a command's
// flag set; ls and extract both take one and dispatch it the same way.
func addPatternFlag(f *pflag.FlagSet, dst *string) {
	f.StringVarP(dst, "pattern", "P", "", "only match entries whose name matches this glob pattern")
}

var log elog.View

var (
	flagVerbose bool
	flagDebug   bool
	flagLogFile string

	flagDevice string
)

var rootCmd = &cobra.Command{
	Use:   "xfsrescue",
	Short: "Read-only forensic recovery tool for damaged XFS filesystems",
	Long: `xfsrescue reads an XFS block device or image directly, without mounting it,
and lets you list and extract files and directories from a filesystem that the
kernel's own XFS driver refuses to mount.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDevice, "device", "f", "", "path to the XFS block device or image (required)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagLogFile, "log", "L", "", "also write log output to this file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := &elog.CLI{}

		logrus.SetFormatter(logger)
		logrus.SetLevel(logrus.TraceLevel)

		if flagDebug {
			logger.IsDebug = true
			logger.IsVerbose = true
		} else if flagVerbose {
			logger.IsVerbose = true
		}

		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			logrus.SetOutput(f)
		}

		log = logger
		return nil
	}

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(statCmd)
}
