package commands

import (
	"os"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
	"github.com/roasbeef/rendezvous"
	"github.com/roasbeef/rendezvous/internal/baselib/actor"
	"github.com/roasbeef/rendezvous/internal/build"
	"github.com/spf13/cobra"
)

var (
	// logDir is the directory rotated log files are written to. Empty
	// disables file logging.
	logDir string

	// maxLogFiles is the maximum number of rotated log files to keep.
	maxLogFiles int

	// maxLogFileSize is the maximum size, in MB, of a log file before
	// rotation occurs.
	maxLogFileSize int

	// logRotator is initialized in PersistentPreRunE and closed in
	// PersistentPostRunE when file logging is enabled.
	logRotator *build.RotatingLogWriter
)

var rootCmd = &cobra.Command{
	Use:   "rendezvousd",
	Short: "Demo harness for the rendezvous channel and select primitives",
	Long: `rendezvousd exercises the rendezvous package's bounded Channel and
Select primitives through small, observable workloads: a producer/consumer
pipeline and a multi-way select over two channels.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logRotator != nil {
			return logRotator.Close()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logDir, "log-dir", "",
		"Directory for rotated log files (empty disables file logging)",
	)
	rootCmd.PersistentFlags().IntVar(
		&maxLogFiles, "max-log-files", build.DefaultMaxLogFiles,
		"Maximum number of rotated log files to keep",
	)
	rootCmd.PersistentFlags().IntVar(
		&maxLogFileSize, "max-log-file-size", build.DefaultMaxLogFileSize,
		"Maximum log file size in MB before rotation",
	)

	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(selectDemoCmd)
}

// initLogging wires a console handler (and, if -log-dir is set, a rotating
// file handler) into both the rendezvous package's logger and the actor
// package's logger, mirroring the teacher daemon's dual-stream setup.
func initLogging() error {
	var handlers []btclogv2.Handler
	handlers = append(handlers, btclog.NewDefaultHandler(os.Stderr))

	if logDir != "" {
		logRotator = build.NewRotatingLogWriter()
		err := logRotator.InitLogRotator(&build.LogRotatorConfig{
			LogDir:         logDir,
			MaxLogFiles:    maxLogFiles,
			MaxLogFileSize: maxLogFileSize,
			Filename:       "rendezvousd.log",
		})
		if err != nil {
			logRotator = nil
			return err
		}

		handlers = append(handlers, btclog.NewDefaultHandler(logRotator))
	}

	combined := build.NewHandlerSet(handlers...)
	logger := btclog.NewSLogger(combined)

	rendezvous.UseLogger(logger)
	actor.UseLogger(logger.WithPrefix("ACTR"))

	return nil
}
