// Command semv filters, validates, sorts, and formats semantic version strings.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/semv/pkg/cliutil"
	"github.com/datawire/semv/pkg/pipeline"
	"github.com/datawire/semv/pkg/version"
)

type argFlags struct {
	NonSemver   bool
	Requirement requirementFlag
	Sort        bool
	SortReverse bool
	Verbose     bool
}

func newArgparser(logger *logrus.Logger) *cobra.Command {
	var flags argFlags
	cmd := &cobra.Command{
		Use:   "semv [flags] [VERSIONS...]",
		Short: "Filter, validate, and sort semantic versions",
		Long: "Read version strings, one per argument or (if there are no arguments) one " +
			"per line of stdin, and print the ones that are valid Semantic Versioning 2.0.0 " +
			"versions.  A single leading \"v\" is tolerated, and is preserved in the output." +
			"\n\n" +
			"A requirement is a comma-separated list of comparators such as " +
			"\">=1.2.0, <2.0.0\".  The operators are =, >, >=, <, <=, ~ (patch-level " +
			"changes), and ^ (changes that keep the left-most non-zero component; the " +
			"default if no operator is given).  Pre-release versions only satisfy a " +
			"requirement that names a pre-release of the same MAJOR.MINOR.PATCH.",
		Args: cobra.ArbitraryArgs,

		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.Sort && flags.SortReverse {
				return cliutil.FlagErrorFunc(cmd, errors.New("--sort and --sort-reverse are mutually exclusive"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, &flags)
		},

		SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
		SilenceUsage:  true, // our FlagErrorFunc will handle it
	}
	cmd.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	cmd.SetHelpTemplate(cliutil.HelpTemplate)

	cmd.Flags().BoolVarP(&flags.NonSemver, "nonsemver", "n", false,
		"Print only the strings that are NOT semantic versions")
	cmd.Flags().VarP(&flags.Requirement, "requirement", "r",
		"Print only the versions that satisfy the requirement `REQ` (non-versions are passed through)")
	cmd.Flags().BoolVarP(&flags.Sort, "sort", "s", false,
		"Sort by version, ascending; non-versions sort first, alphabetically")
	cmd.Flags().BoolVarP(&flags.SortReverse, "sort-reverse", "R", false,
		"Sort by version, descending")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Print each version as a line of JSON with its parsed components")
	cmd.Flags().Var(&logLevelFlag{logger: logger}, "log-level",
		"Log diagnostics to stderr at `LEVEL` (error, warn, info, debug, trace)")

	return cmd
}

func run(ctx context.Context, stdin io.Reader, stdout io.Writer, args []string, flags *argFlags) error {
	if flags.NonSemver && flags.Requirement.set {
		dlog.Warnf(ctx, "--requirement=%q has no effect with --nonsemver; it only filters semantic versions",
			flags.Requirement.str)
	}

	lines, err := readLines(args, stdin)
	if err != nil {
		return err
	}

	records := pipeline.ParseAll(lines)
	records = pipeline.FilterValid(records, flags.NonSemver)
	dlog.Debugf(ctx, "validity filter (nonsemver=%v): kept %d of %d", flags.NonSemver, len(records), len(lines))

	if flags.Requirement.set {
		before := len(records)
		records = pipeline.FilterByRequirement(records, flags.Requirement.req)
		dlog.Debugf(ctx, "requirement %q: kept %d of %d", flags.Requirement.req, len(records), before)
	}

	switch {
	case flags.SortReverse:
		records = pipeline.Sort(records, true)
	case flags.Sort:
		records = pipeline.Sort(records, false)
	}

	out, err := pipeline.Format(records, flags.Verbose)
	if err != nil {
		return err
	}
	return writeLines(stdout, out)
}

// requirementFlag is a pflag.Value that parses the requirement as soon as the flag is seen, so that
// a malformed requirement is a usage error reported before any input is read.
type requirementFlag struct {
	str string
	req version.Requirement
	set bool
}

func (f *requirementFlag) String() string { return f.str }
func (f *requirementFlag) Type() string   { return "requirement" }

func (f *requirementFlag) Set(str string) error {
	req, err := version.ParseRequirement(str)
	if err != nil {
		return err
	}
	f.str, f.req, f.set = str, req, true
	return nil
}

type logLevelFlag struct {
	logger *logrus.Logger
}

func (f *logLevelFlag) String() string {
	if f.logger == nil {
		return ""
	}
	return f.logger.GetLevel().String()
}

func (f *logLevelFlag) Type() string { return "level" }

func (f *logLevelFlag) Set(str string) error {
	lvl, err := logrus.ParseLevel(str)
	if err != nil {
		return err
	}
	f.logger.SetLevel(lvl)
	return nil
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	argparser := newArgparser(logger)
	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
