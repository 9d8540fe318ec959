// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/progress"
	"github.com/temirov/dirtree/internal/render"
	"github.com/temirov/dirtree/internal/report"
	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
	"github.com/temirov/dirtree/internal/walker"
)

const (
	levelFlagName      = "level"
	levelFlagShorthand = "l"
	allFlagName        = "all"
	allFlagShorthand   = "a"
	fullPathFlagName   = "fullpath"
	classifyFlagName   = "classify"
	classifyShorthand  = "F"
	noReportFlagName   = "noreport"
	indentFlagName     = "indent"
	noIndentFlagName   = "noindent"
	noIndentShorthand  = "i"
	outputFlagName     = "output"
	outputShorthand    = "o"
	exclusionFlagName  = "exclude"
	exclusionShorthand = "e"
	formatFlagName     = "format"
	parallelFlagName   = "parallel"
	skipErrorsFlagName = "skip-errors"
	copyFlagName       = "copy"
	configFlagName     = "config"

	levelFlagDescription      = "max display depth of the directory tree"
	allFlagDescription        = "include entries whose names begin with a dot"
	fullPathFlagDescription   = "print the full path of each entry"
	classifyFlagDescription   = "mark directories with '/', sockets with '=' and FIFOs with '|' before their names"
	noReportFlagDescription   = "omit the summary and do not echo the tree to the console"
	indentFlagDescription     = "width of each indentation level"
	noIndentFlagDescription   = "drop the guide and branch marks for a flat listing"
	outputFlagDescription     = "file the tree is written to"
	exclusionFlagDescription  = "exclude entries matching the glob (repeatable, trailing '/' matches directories only)"
	formatFlagDescription     = "output format: raw or json"
	parallelFlagDescription   = "number of directories read concurrently"
	skipErrorsFlagDescription = "skip unreadable directories and entries instead of aborting"
	copyFlagDescription       = "copy the report to the system clipboard"
	configFlagDescription     = "path to a configuration file"

	rootUse              = "dirtree [path]"
	rootShortDescription = "render a directory as an ASCII tree"
	versionTemplate      = "dirtree version: {{.Version}}\n"

	defaultParallelism           = 1
	invalidFormatMessage         = "invalid format value '%s'"
	workingDirectoryErrorFormat  = "unable to determine working directory: %w"
	loadConfigurationErrorFormat = "loading configuration: %w"
)

var (
	rootLongDescription = heredoc.Doc(`
		dirtree walks a directory and writes its structure as an ASCII tree, like the
		Unix tree command. The tree is written to the output file and, unless
		--noreport is given, echoed to the console followed by a count of every
		entry type.

		Defaults can be stored in .dirtree.yaml in the working directory or in
		~/.dirtree/.dirtree.yaml; run "dirtree init" to create one. Flags given on the
		command line override configured values.
	`)
	rootUsageExample = heredoc.Doc(`
		  # Two levels of the current directory, written to tree_out
		  dirtree -l 2

		  # Include hidden entries, classify types, write to listing.txt
		  dirtree ./src -a -F -o listing.txt

		  # JSON report, reading four directories at a time
		  dirtree --format json --parallel 4 /var/log
	`)
)

// environment holds the collaborators of a run so tests can replace them.
type environment struct {
	logger           *zap.Logger
	fileSystem       walker.FileSystem
	copier           report.Copier
	workingDirectory string
	newSpinner       func() *progress.Spinner
}

// treeOptions stores the values of the command line flags.
type treeOptions struct {
	level             int
	includeHidden     bool
	fullPath          bool
	classify          bool
	noReport          bool
	indent            int
	noIndent          bool
	output            string
	exclusionPatterns []string
	format            string
	parallel          int
	skipErrors        bool
	copyReport        bool
	configPath        string
}

// Execute runs the dirtree application.
func Execute(ctx context.Context, logger *zap.Logger, arguments []string) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	rootCommand := createRootCommand(environment{
		logger:           logger,
		fileSystem:       walker.NewOSFileSystem(),
		copier:           report.NewClipboardCopier(),
		workingDirectory: workingDirectory,
		newSpinner:       progress.NewTerminalSpinner,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(env environment) *cobra.Command {
	var options treeOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := env.workingDirectory
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			configuration, configurationError := resolveRunConfiguration(command, env.workingDirectory, rootPath, options)
			if configurationError != nil {
				return configurationError
			}
			return runTree(command.Context(), env, configuration)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	flagSet := rootCommand.Flags()
	flagSet.IntVarP(&options.level, levelFlagName, levelFlagShorthand, walker.MinimumDepth, levelFlagDescription)
	registerBooleanFlag(flagSet, &options.includeHidden, allFlagName, allFlagShorthand, false, allFlagDescription)
	registerBooleanFlag(flagSet, &options.fullPath, fullPathFlagName, "", false, fullPathFlagDescription)
	registerBooleanFlag(flagSet, &options.classify, classifyFlagName, classifyShorthand, false, classifyFlagDescription)
	registerBooleanFlag(flagSet, &options.noReport, noReportFlagName, "", false, noReportFlagDescription)
	flagSet.IntVar(&options.indent, indentFlagName, render.DefaultIndentWidth, indentFlagDescription)
	registerBooleanFlag(flagSet, &options.noIndent, noIndentFlagName, noIndentShorthand, false, noIndentFlagDescription)
	flagSet.StringVarP(&options.output, outputFlagName, outputShorthand, report.DefaultOutputFileName, outputFlagDescription)
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	flagSet.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	flagSet.IntVar(&options.parallel, parallelFlagName, defaultParallelism, parallelFlagDescription)
	registerBooleanFlag(flagSet, &options.skipErrors, skipErrorsFlagName, "", false, skipErrorsFlagDescription)
	registerBooleanFlag(flagSet, &options.copyReport, copyFlagName, "", false, copyFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(createInitCommand(env))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON:
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if !isSupportedFormat(normalized) {
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
	return normalized, nil
}
