package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/ktconf/pkg/log"
)

const (
	cmdName = "ktconf"
	cmdDesc = `Inspect and watch the EditorConfig inputs of Kotlin lint runs.`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the project configuration file (default: search upwards)")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		PersistentPreRunE: setupLogging(args),
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewOverridesCmd(NewOverridesArgs(args)),
		NewChainCmd(NewChainArgs(args)),
		NewWatchCmd(NewWatchArgs(args)),
		NewSchemaCmd(),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := log.New(cmd.ErrOrStderr(), log.Options{
			Level:  rc.LogLevel,
			Format: rc.LogFormat,
		})
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}

		slog.SetDefault(logger)

		cmd.SetContext(log.NewContext(cmd.Context(), logger))

		return nil
	}
}

// pathArg returns the optional path argument, defaulting to the working
// directory.
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}
