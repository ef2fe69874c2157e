package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds environment variables to the flags of cmd and all of its
// subcommands. Environment variable names are generated as KTCONF_<FLAG_NAME>
// where the flag name is converted to uppercase and dashes are replaced with
// underscores.
//
// For example:
//   - Flag "log-level" becomes environment variable "KTCONF_LOG_LEVEL"
//   - Flag "disabled-rules" becomes environment variable "KTCONF_DISABLED_RULES"
//
// Arguments take precedence over environment variables, which take precedence
// over the project configuration and default values. A flag set from the
// environment is marked as changed.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
}

// bindFlagToEnv binds a single flag to its corresponding environment variable.
func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	// Update the flag usage to include the environment variable name.
	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	// Skip if flag was already set via command line arguments.
	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := setFlagValue(flag, envValue)
	if err != nil {
		// Log error but don't fail - use default value instead.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)

		return
	}

	flag.Changed = true
}

// setFlagValue sets the flag from an environment value. Slice flags are
// replaced rather than appended to, so that a later command line value
// still replaces the environment value.
func setFlagValue(flag *pflag.Flag, value string) error {
	sv, ok := flag.Value.(pflag.SliceValue)
	if !ok {
		return flag.Value.Set(value) //nolint:wrapcheck // Logged by the caller.
	}

	var items []string
	for item := range strings.SplitSeq(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return sv.Replace(items) //nolint:wrapcheck // Logged by the caller.
}

// flagToEnvName converts a flag name to its corresponding environment variable name.
// Example: "log-level" -> "KTCONF_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")
	return strings.ToUpper(cmdName + "_" + envName)
}
