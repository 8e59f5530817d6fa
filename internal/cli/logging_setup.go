package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/logging"
)

// setupLogging configures logging from the config file, environment and
// CLI flags, and stores the logger and a trace ID in the command context.
// Interactive commands log to a file, falling back to discarding output,
// so log lines never land on the screen they draw.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
	}

	tui := cmd.Annotations[annotationTUI] == "true" && interactive(cmd)
	switch {
	case tui && loggingCfg.File == "":
		loggingCfg.File = config.DefaultTUILogFile()
	case debug && !tui:
		loggingCfg.File = ""
	}

	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	var result logging.LogPathResult
	if tui && loggingCfg.File == "" {
		result = logging.LogPathResult{Logger: logging.NewWriterLogger(loggingCfg.ToLoggingConfig(), io.Discard)}
	} else {
		result = logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
		if tui && result.FallbackUsed {
			result.Logger = logging.NewWriterLogger(loggingCfg.ToLoggingConfig(), io.Discard)
		}
	}
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && !tui {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed && !tui {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
