package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/SakuraScope/internal/application/screening"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// ScreenOutput wraps a screening result for printing.
type ScreenOutput struct {
	*screening.Result
	RecommendedOnly bool `json:"recommended_only,omitempty"`
}

func (o *ScreenOutput) Summary() string {
	return fmt.Sprintf("%q: %d found, %d filtered, %d processed, %d failed, %d recommended (mean quality %.1f, %s)",
		o.Keyword, o.Found, o.Filtered, o.Processed, o.Failed, o.RecommendedCount,
		o.QualityScore, o.Duration.Round(time.Millisecond))
}

func (o *ScreenOutput) TableHeaders() []string {
	return []string{"#", "ASIN", "NAME", "QUALITY", "SAKURA", "SOURCE", "RESULT"}
}

func (o *ScreenOutput) TableRows(noColor bool) [][]string {
	rows := make([][]string, 0, len(o.Candidates))
	for i, c := range o.Candidates {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.Product.ASIN(),
			truncate(c.Product.Name(), 40),
			fmt.Sprintf("%.1f", c.QualityScore),
			formatScore(c.SakuraScore),
			c.ScoreSource,
			dispositionLabel(c.Disposition, noColor),
		})
	}
	return rows
}

func dispositionLabel(d screening.Disposition, noColor bool) string {
	switch d {
	case screening.DispositionRecommended:
		return paint(string(d), "LOW", noColor)
	case screening.DispositionSuspicious, screening.DispositionFailed:
		return paint(string(d), "HIGH", noColor)
	default:
		return paint(string(d), "MEDIUM", noColor)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// NewScreenCmd creates the screen command.
func NewScreenCmd() *cobra.Command {
	var (
		catalog         string
		checkerURL      string
		max             int
		recommendedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "screen KEYWORD",
		Short: "Screen a keyword search for trustworthy products",
		Long: "Search the local product catalog for KEYWORD, drop listings below the rating,\n" +
			"review and price floors, score the rest and rank them by quality.",
		Example: `  sakura screen "wireless earbuds" --catalog catalog.json
  sakura screen monitor --max 10 --recommended-only -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if max < 0 {
				return errors.InvalidParam("max must be non-negative")
			}

			sc := cliCtx.Config.Screening
			if catalog == "" {
				catalog = sc.CatalogPath
			}
			if catalog == "" {
				return errors.InvalidParam("a product catalog is required (--catalog or screening.catalog_path)")
			}
			if checkerURL == "" {
				checkerURL = sc.CheckerURL
			}

			provider, err := screening.NewCatalogProvider(catalog, cliCtx.Logger)
			if err != nil {
				return err
			}
			opts := []screening.Option{screening.WithLogger(cliCtx.Logger)}
			if checkerURL != "" {
				opts = append(opts, screening.WithChecker(
					screening.NewHTTPChecker(checkerURL, sc.CheckerTimeout, cliCtx.Logger)))
			}
			svc, err := screening.NewService(screening.ConfigFrom(sc), provider, cliCtx.Detector, opts...)
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd, cliCtx)
			defer cancel()

			res, err := svc.Screen(ctx, strings.Join(args, " "), max)
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug("screening finished",
				logging.String("run_id", res.RunID), logging.Int("recommended", res.RecommendedCount))

			if recommendedOnly {
				res.Candidates = res.Recommended()
			}
			return PrintResult(cmd, &ScreenOutput{Result: res, RecommendedOnly: recommendedOnly})
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "product catalog file (.json, .yaml); defaults to screening.catalog_path")
	cmd.Flags().StringVar(&checkerURL, "checker-url", "", "second-opinion checker endpoint ({asin} is substituted)")
	cmd.Flags().IntVar(&max, "max", 0, "maximum products to search (0 uses screening.max_results)")
	cmd.Flags().BoolVar(&recommendedOnly, "recommended-only", false, "list only recommended products")
	return cmd
}

//Personal.AI order the ending
