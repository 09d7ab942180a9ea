package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"classmaid/internal/config"
	"classmaid/internal/crawler"
	"classmaid/internal/diag"
	"classmaid/internal/generator"
	"classmaid/internal/pipeline"
)

var (
	flagMultipleFiles bool
	flagOutputDir     string
	flagOutput        string
	flagFormat        string
	flagDirection     string
	flagExclude       []string
	flagExtendExclude []string
	flagNoTitle       bool
	flagHidePrivate   bool
	flagConfig        string
	flagVerbose       bool
	flagJobs          int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "classmaid PATH",
		Short: "Generate Mermaid class diagrams from Python source",
		Long: "classmaid statically analyzes Python source code and renders Mermaid\n" +
			"classDiagram markup: classes, inheritance, members, and stereotypes.\n" +
			"PATH may be a file, a directory, or '-' to read source from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().BoolVarP(&flagMultipleFiles, "multiple-files", "m", false, "render one diagram per Python file")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for generated diagram files")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "write a single diagram to this file, or '-' for stdout")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: md or mmd")
	rootCmd.Flags().StringVarP(&flagDirection, "direction", "D", "", "diagram direction: TB, BT, LR, or RL")
	rootCmd.Flags().StringArrayVarP(&flagExclude, "exclude", "e", nil, "glob patterns replacing the default excludes")
	rootCmd.Flags().StringArrayVar(&flagExtendExclude, "extend-exclude", nil, "glob patterns added to the default excludes")
	rootCmd.Flags().BoolVar(&flagNoTitle, "no-title", false, "omit the title frontmatter")
	rootCmd.Flags().BoolVar(&flagHidePrivate, "hide-private", false, "omit private (single-underscore) members")
	rootCmd.Flags().StringVar(&flagConfig, "config", "classmaid.yaml", "path to the configuration file")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().IntVar(&flagJobs, "jobs", 0, "parallel parse workers (default: number of CPUs)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := hclog.Warn
	if flagVerbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "classmaid",
		Level:  level,
		Output: os.Stderr,
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, cfg)

	direction, err := generator.ParseDirection(cfg.Direction)
	if err != nil {
		return err
	}
	format, err := generator.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	path := args[0]
	isStdin := path == "-"
	if isStdin && flagMultipleFiles {
		return errors.New("--multiple-files is not compatible with stdin input (PATH='-')")
	}

	var units []pipeline.SourceUnit
	if isStdin {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		units = []pipeline.SourceUnit{{ID: "<stdin>", Source: source}}
	} else {
		cr := crawler.NewCrawler(cfg.Exclude, cfg.ExtendExclude)
		units, err = cr.Collect(path)
		if err != nil {
			return err
		}
	}
	if len(units) == 0 {
		return fmt.Errorf("no Python files found under %s", path)
	}
	logger.Debug("collected source units", "count", len(units))

	opts := pipeline.Options{
		Render: generator.Options{
			Title:       combinedTitle(path, isStdin),
			Direction:   direction,
			HidePrivate: flagHidePrivate,
			Format:      format,
			MaxChars:    cfg.MaxChars,
		},
		MultiFile: flagMultipleFiles,
		NoTitle:   flagNoTitle,
		Jobs:      flagJobs,
	}

	report, runErr := pipeline.Run(context.Background(), units, opts, logger)
	if report != nil {
		printDiagnostics(report.Report)
	}
	if runErr != nil {
		if errors.Is(runErr, generator.ErrTooLarge) {
			return fmt.Errorf("%w; re-run with --multiple-files to split per file", runErr)
		}
		return runErr
	}

	return writeDocuments(report.Documents, format, opts.Render.Title, cfg.OutputDir)
}

// applyFlags overlays explicitly-set flags on top of the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Format = flagFormat
	}
	if cmd.Flags().Changed("direction") {
		cfg.Direction = flagDirection
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Exclude = flagExclude
	}
	if cmd.Flags().Changed("extend-exclude") {
		cfg.ExtendExclude = append(cfg.ExtendExclude, flagExtendExclude...)
	}
	if flagHidePrivate {
		cfg.HidePrivate = true
	}
	flagHidePrivate = cfg.HidePrivate
}

func combinedTitle(path string, isStdin bool) string {
	if isStdin {
		return "<stdin>"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.Base(abs)
}

func printDiagnostics(report diag.Report) {
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)
	for _, f := range report.Failed {
		fail.Fprintf(os.Stderr, "%s: %s\n", f.Unit, f.Reason)
	}
	for _, w := range report.Warnings {
		if w.Line > 0 {
			warn.Fprintf(os.Stderr, "%s:%d: %s\n", w.Unit, w.Line, w.Message)
		} else {
			warn.Fprintf(os.Stderr, "%s: %s\n", w.Unit, w.Message)
		}
	}
}

func writeDocuments(documents []pipeline.Document, format generator.Format, title, outputDir string) error {
	if len(documents) == 0 {
		fmt.Fprintln(os.Stderr, "No classes found.")
		return nil
	}

	if flagOutput != "" {
		if len(documents) > 1 {
			return errors.New("--output is not compatible with --multiple-files; use --output-dir instead")
		}
		if flagOutput == "-" {
			_, err := os.Stdout.WriteString(documents[0].Text)
			return err
		}
		return writeFile(flagOutput, documents[0].Text)
	}

	if outputDir == "" {
		outputDir = "./output"
	}

	written := 0
	for _, doc := range documents {
		name := doc.Unit
		if name == "" {
			name = title
		}
		if name == "" || name == "<stdin>" {
			name = "diagram"
		}
		name = strings.TrimSuffix(name, ".py") + "." + format.Extension()
		path := filepath.Join(outputDir, filepath.FromSlash(name))
		if err := writeFile(path, doc.Text); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Mermaid file written to: %s\n", path)
		written++
	}
	fmt.Fprintf(os.Stderr, "Files written: %d\n", written)
	return nil
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
