package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/macropower/ktconf/pkg/log"
	"github.com/macropower/ktconf/pkg/override"
	"github.com/macropower/ktconf/pkg/rules"
)

const overridesExamples = `  # Show the overrides derived from the nearest project configuration:
  ktconf overrides

  # Disable rules without a project configuration:
  ktconf overrides --disabled-rules no-wildcard-imports,custom:no-println

  # Write an editorconfig section:
  ktconf overrides ./app -o editorconfig >> ./app/.editorconfig`

// Output formats supported by `ktconf overrides`.
const (
	OutputYAML         = "yaml"
	OutputJSON         = "json"
	OutputEditorConfig = "editorconfig"
)

var allOutputs = []string{OutputYAML, OutputJSON, OutputEditorConfig}

type OverridesArgs struct {
	*RootArgs

	Output        string
	Glob          string
	DisabledRules []string
	Experimental  bool
}

func NewOverridesArgs(rootArgs *RootArgs) *OverridesArgs {
	return &OverridesArgs{
		RootArgs: rootArgs,
	}
}

func (oa *OverridesArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&oa.DisabledRules, "disabled-rules", nil,
		"Rules to disable, replacing the project configuration's list")
	cmd.Flags().BoolVar(&oa.Experimental, "experimental", false,
		"Enable experimental rules, replacing the project configuration's setting")
	cmd.Flags().StringVarP(&oa.Output, "output", "o", OutputYAML,
		fmt.Sprintf("Output format, one of: %s", allOutputs))
	cmd.Flags().StringVar(&oa.Glob, "glob", override.DefaultEditorConfigGlob,
		"Section glob used by the editorconfig output")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(allOutputs, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewOverridesCmd(oa *OverridesArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "overrides [path]",
		Short:             "Print the editorconfig property overrides for a project",
		Example:           overridesExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(allOutputs, oa.Output) {
				return fmt.Errorf("invalid argument %q for \"--output\" flag: must be one of %s", oa.Output, allOutputs)
			}
			if !doublestar.ValidatePattern(oa.Glob) {
				return fmt.Errorf("invalid argument %q for \"--glob\" flag: %w", oa.Glob, doublestar.ErrBadPattern)
			}

			set, err := oa.resolve(cmd, pathArg(args))
			if err != nil {
				return err
			}

			return writeOverrides(cmd, set, oa.Output, oa.Glob)
		},
	}
	oa.AddFlags(cmd)

	return cmd
}

// resolve merges flag values over the project configuration for path.
func (oa *OverridesArgs) resolve(cmd *cobra.Command, path string) (*override.Set, error) {
	ctx := cmd.Context()

	cfg, _, err := loadProjectConfig(ctx, oa.RootArgs, path)
	if err != nil {
		return nil, err
	}

	params := cfg.Params()
	if cmd.Flags().Changed("disabled-rules") {
		params.DisabledRules = rules.Normalize(oa.DisabledRules)
	}
	if cmd.Flags().Changed("experimental") {
		params.ExperimentalRules = oa.Experimental
	}

	set := override.FromParams(params)

	log.FromContext(ctx).DebugContext(ctx, "assembled overrides",
		slog.Int("count", set.Len()),
		slog.String("overrides", set.String()),
	)

	return set, nil
}

func writeOverrides(cmd *cobra.Command, set *override.Set, output, glob string) error {
	w := cmd.OutOrStdout()

	switch output {
	case OutputJSON:
		b, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}

		_, err = fmt.Fprintln(w, string(b))
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil

	case OutputEditorConfig:
		return set.WriteEditorConfig(w, glob) //nolint:wrapcheck // Already wrapped.
	}

	b, err := set.YAML()
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	return writeYAML(w, b)
}
