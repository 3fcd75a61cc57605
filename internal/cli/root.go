package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paulexconde/surveybuilder/internal/definition"
	"github.com/paulexconde/surveybuilder/internal/services"
)

const logLevelEnv = "SURVEYCTL_LOG_LEVEL"

type app struct {
	logLevel string
	logger   *slog.Logger
}

// NewRootCommand wires every surveyctl subcommand.
func NewRootCommand() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:           "surveyctl",
		Short:         "Inspect conditional survey definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogger(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (env "+logLevelEnv+")")

	root.AddCommand(a.newCheckCommand(), a.newQuestionsCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// setupLogger resolves the level from the flag, then the environment.
func (a *app) setupLogger(cmd *cobra.Command) error {
	level := a.logLevel
	if level == "" {
		level = os.Getenv(logLevelEnv)
	}
	if level == "" {
		level = "warn"
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	return nil
}

func (a *app) loadSurvey(path string) (*definition.Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	loaded, err := definition.Load(f, services.WithLogger(a.logger))
	if err != nil {
		a.logger.Error("survey load failed", "path", path, "error", err)
		return nil, err
	}

	a.logger.Info("survey loaded", "path", path, "survey_id", loaded.Survey.ID(), "questions", loaded.Survey.Len())
	return loaded, nil
}
