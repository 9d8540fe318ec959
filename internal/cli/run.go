package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/progress"
	"github.com/temirov/dirtree/internal/render"
	"github.com/temirov/dirtree/internal/report"
	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/walker"
)

const (
	effectiveConfigurationMessage = "effective configuration"
	resultMessage                 = "result:\n"
	finishedWritingMessage        = "finished writing report"
	skippedEntryMessage           = "skipping unreadable entry"
	copiedReportMessage           = "copied report to clipboard"
)

// runConfiguration is the fully resolved input of one run.
type runConfiguration struct {
	RootPath          string
	MaxDepth          int
	IncludeHidden     bool
	FullPath          bool
	Classify          bool
	IncludeSummary    bool
	NoIndent          bool
	IndentWidth       int
	OutputPath        string
	ExclusionPatterns []string
	Format            string
	Parallelism       int
	SkipErrors        bool
	CopyReport        bool
}

// resolveRunConfiguration layers configuration files under explicitly set flags.
func resolveRunConfiguration(command *cobra.Command, workingDirectory string, rootPath string, options treeOptions) (runConfiguration, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if loadError != nil {
		return runConfiguration{}, fmt.Errorf(loadConfigurationErrorFormat, loadError)
	}
	applyTreeConfiguration(command, &options, applicationConfiguration.Tree)

	format, formatError := normalizeFormat(options.format)
	if formatError != nil {
		return runConfiguration{}, formatError
	}

	absoluteRootPath := rootPath
	if !filepath.IsAbs(absoluteRootPath) {
		absoluteRootPath = filepath.Join(workingDirectory, rootPath)
	}
	absoluteRootPath = filepath.Clean(absoluteRootPath)

	exclusionPatterns := options.exclusionPatterns
	if rootInfo, statError := os.Stat(absoluteRootPath); statError == nil && rootInfo.IsDir() {
		combinedPatterns, patternsError := config.LoadCombinedExclusionPatterns(absoluteRootPath, exclusionPatterns)
		if patternsError != nil {
			return runConfiguration{}, patternsError
		}
		exclusionPatterns = combinedPatterns
	}

	indentWidth := options.indent
	if indentWidth < 1 {
		indentWidth = render.DefaultIndentWidth
	}

	return runConfiguration{
		RootPath:          absoluteRootPath,
		MaxDepth:          walker.ClampDepth(options.level),
		IncludeHidden:     options.includeHidden,
		FullPath:          options.fullPath,
		Classify:          options.classify,
		IncludeSummary:    !options.noReport,
		NoIndent:          options.noIndent,
		IndentWidth:       indentWidth,
		OutputPath:        options.output,
		ExclusionPatterns: exclusionPatterns,
		Format:            format,
		Parallelism:       options.parallel,
		SkipErrors:        options.skipErrors,
		CopyReport:        options.copyReport,
	}, nil
}

// applyTreeConfiguration copies configured values into options for every flag that was
// not set on the command line.
func applyTreeConfiguration(command *cobra.Command, options *treeOptions, configuration config.TreeConfiguration) {
	flagChanged := func(name string) bool {
		if command == nil {
			return false
		}
		return command.Flags().Changed(name)
	}
	if configuration.Level != nil && !flagChanged(levelFlagName) {
		options.level = *configuration.Level
	}
	if configuration.All != nil && !flagChanged(allFlagName) {
		options.includeHidden = *configuration.All
	}
	if configuration.FullPath != nil && !flagChanged(fullPathFlagName) {
		options.fullPath = *configuration.FullPath
	}
	if configuration.Classify != nil && !flagChanged(classifyFlagName) {
		options.classify = *configuration.Classify
	}
	if configuration.NoReport != nil && !flagChanged(noReportFlagName) {
		options.noReport = *configuration.NoReport
	}
	if configuration.Indent != nil && !flagChanged(indentFlagName) {
		options.indent = *configuration.Indent
	}
	if configuration.NoIndent != nil && !flagChanged(noIndentFlagName) {
		options.noIndent = *configuration.NoIndent
	}
	if configuration.Output != "" && !flagChanged(outputFlagName) {
		options.output = configuration.Output
	}
	if configuration.Format != "" && !flagChanged(formatFlagName) {
		options.format = configuration.Format
	}
	if configuration.Parallel != nil && !flagChanged(parallelFlagName) {
		options.parallel = *configuration.Parallel
	}
	if configuration.SkipErrors != nil && !flagChanged(skipErrorsFlagName) {
		options.skipErrors = *configuration.SkipErrors
	}
	if configuration.Copy != nil && !flagChanged(copyFlagName) {
		options.copyReport = *configuration.Copy
	}
	if len(configuration.Exclude) > 0 && !flagChanged(exclusionFlagName) {
		options.exclusionPatterns = append([]string{}, configuration.Exclude...)
	}
}

// runTree walks, renders and writes the report. Nothing is written unless the walk and
// the rendering both succeed.
func runTree(ctx context.Context, env environment, configuration runConfiguration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := env.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info(effectiveConfigurationMessage,
		zap.String("root", configuration.RootPath),
		zap.Int("level", configuration.MaxDepth),
		zap.Bool("all", configuration.IncludeHidden),
		zap.Bool("fullpath", configuration.FullPath),
		zap.Bool("classify", configuration.Classify),
		zap.Bool("noreport", !configuration.IncludeSummary),
		zap.Int("indent", configuration.IndentWidth),
		zap.Bool("noindent", configuration.NoIndent),
		zap.String("output", configuration.OutputPath),
		zap.Strings("exclude", configuration.ExclusionPatterns),
		zap.String("format", configuration.Format),
		zap.Int("parallel", configuration.Parallelism),
		zap.Bool("skip_errors", configuration.SkipErrors),
	)

	fileSystem := env.fileSystem
	if fileSystem == nil {
		fileSystem = walker.NewOSFileSystem()
	}
	errorPolicy := walker.ErrorPolicyAbort
	if configuration.SkipErrors {
		errorPolicy = walker.ErrorPolicySkip
	}
	var spinner *progress.Spinner
	if env.newSpinner != nil {
		spinner = env.newSpinner()
	}
	spinner.Start()
	tree, stats, walkError := walker.BuildTree(ctx, walker.Options{
		Root:            configuration.RootPath,
		MaxDepth:        configuration.MaxDepth,
		IncludeHidden:   configuration.IncludeHidden,
		ExcludePatterns: configuration.ExclusionPatterns,
		Parallelism:     configuration.Parallelism,
		ErrorPolicy:     errorPolicy,
		Warn: func(path string, err error) {
			logger.Warn(skippedEntryMessage, zap.String("path", path), zap.Error(err))
		},
		Progress: spinner.Update,
	}, fileSystem)
	spinner.Stop()
	if walkError != nil {
		return walkError
	}

	renderOptions := render.Options{
		FullPath:       configuration.FullPath,
		Classify:       configuration.Classify,
		NoIndent:       configuration.NoIndent,
		IndentWidth:    configuration.IndentWidth,
		IncludeSummary: configuration.IncludeSummary,
		LineTerminator: render.PlatformLineTerminator(),
	}
	var content string
	switch configuration.Format {
	case types.FormatJSON:
		encoded, renderError := render.RenderJSON(tree, stats, renderOptions)
		if renderError != nil {
			return renderError
		}
		content = encoded
	default:
		content = render.RenderReport(tree, stats, renderOptions)
	}

	if configuration.IncludeSummary {
		logger.Info(resultMessage + content)
	}

	written, writeError := report.Write(env.workingDirectory, configuration.OutputPath, content)
	if writeError != nil {
		return writeError
	}
	logger.Info(finishedWritingMessage,
		zap.String("path", written.Path),
		zap.String("size", humanize.Bytes(uint64(written.Bytes))),
		zap.Int("entries", stats.Total()),
	)

	if configuration.CopyReport {
		if copyError := report.CopyToClipboard(env.copier, content); copyError != nil {
			return copyError
		}
		logger.Info(copiedReportMessage)
	}
	return nil
}
