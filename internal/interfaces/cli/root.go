// Package cli implements the sakura command line tool: offline analysis of
// product listings and reviews, batch ranking, the standalone heuristics and
// keyword screening against a local catalog.
package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/SakuraScope/internal/config"
	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Detector     *sakura.Detector
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sakura",
		Short: "SakuraScope CLI: detect manipulated product reviews",
		Long: "SakuraScope scores product listings for review manipulation (\"sakura\" reviews)\n" +
			"and screens keyword searches for trustworthy affiliate candidates.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./config.yaml, ~/.sakurascope/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); defaults to the config value")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, table, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "global operation timeout")

	cmd.AddCommand(
		NewAnalyzeCmd(),
		NewBatchCmd(),
		NewHeuristicsCmd(),
		NewScreenCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger and detector, then stores the
// CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case OutputText, OutputTable, OutputJSON:
	default:
		return errors.InvalidParam(fmt.Sprintf("unsupported output format %q", opts.OutputFormat))
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	detector, err := sakura.NewDetector(sakura.Config{
		AnomalyThreshold:      cfg.Detector.AnomalyThreshold,
		MinReviewsForAnalysis: cfg.Detector.MinReviewsForAnalysis,
		BatchSize:             cfg.Detector.BatchSize,
	}, sakura.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("detector initialization failed: %w", err)
	}

	if opts.NoColor {
		color.NoColor = true
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Detector:     detector,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor || color.NoColor,
		Timeout:      opts.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: env > file > defaults. An
// explicit --config must exist; the search paths are optional.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFromFile(opts.ConfigPath)
	}

	searchPaths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".sakurascope"))
	}
	searchPaths = append(searchPaths, "/etc/sakurascope")

	cfg, err := config.Load(config.WithSearchPaths(searchPaths...))
	if stderrors.Is(err, config.ErrConfigFileNotFound) {
		return config.LoadFromEnv()
	}
	return cfg, err
}

// initLogger creates a console logger on stderr so stdout stays parseable.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = strings.ToLower(opts.LogLevel)
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// tableData is implemented by results with a tabular text form.
type tableData interface {
	TableHeaders() []string
	TableRows(noColor bool) [][]string
}

// summarizer is implemented by results that print a header line above the
// table.
type summarizer interface {
	Summary() string
}

// PrintResult outputs data in the format selected by --output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd.OutOrStdout(), data)
	}
	if cliCtx.OutputFormat == OutputJSON {
		return printJSON(cmd.OutOrStdout(), data)
	}
	return printText(cmd.OutOrStdout(), data, cliCtx.NoColor)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}, noColor bool) error {
	if s, ok := data.(summarizer); ok {
		fmt.Fprintln(w, s.Summary())
	}
	if td, ok := data.(tableData); ok {
		return renderTable(w, td.TableHeaders(), td.TableRows(noColor))
	}
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprintln(w, v.String())
	default:
		fmt.Fprintf(w, "%+v\n", v)
	}
	return nil
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// withTimeout derives the per-command deadline from --timeout.
func withTimeout(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cliCtx.Timeout)
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.InvalidParam("an input file is required (-f)")
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read input file").WithDetail(path)
	}
	return raw, nil
}

// riskLabel colors a risk level for text output.
func riskLabel(level product.RiskLevel, noColor bool) string {
	return paint(level.String(), level.String(), noColor)
}

// paint renders s in the color of the given risk level.
func paint(s, level string, noColor bool) string {
	if noColor {
		return s
	}
	switch level {
	case "HIGH":
		return color.RedString(s)
	case "MEDIUM":
		return color.YellowString(s)
	default:
		return color.GreenString(s)
	}
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

//Personal.AI order the ending
