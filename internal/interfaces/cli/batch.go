package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// BatchRow is one ranked product in a batch run.
type BatchRow struct {
	ASIN       string            `json:"asin"`
	Score      float64           `json:"sakura_score"`
	RiskLevel  product.RiskLevel `json:"risk_level"`
	Confidence float64           `json:"confidence_level"`
	Suspicious bool              `json:"suspicious"`
	Warnings   []string          `json:"warnings"`
}

// BatchOutput is printed by `sakura batch`.
type BatchOutput struct {
	Total     int        `json:"total"`
	Analyzed  int        `json:"analyzed"`
	Failed    int        `json:"failed"`
	Flagged   int        `json:"flagged"`
	Threshold float64    `json:"threshold"`
	Results   []BatchRow `json:"results"`
}

func (o *BatchOutput) Summary() string {
	return fmt.Sprintf("%d products, %d analyzed, %d failed, %d flagged (threshold %.2f)",
		o.Total, o.Analyzed, o.Failed, o.Flagged, o.Threshold)
}

func (o *BatchOutput) TableHeaders() []string {
	return []string{"#", "ASIN", "SCORE", "RISK", "CONFIDENCE", "WARNINGS"}
}

func (o *BatchOutput) TableRows(noColor bool) [][]string {
	rows := make([][]string, 0, len(o.Results))
	for i, r := range o.Results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.ASIN,
			formatScore(r.Score),
			riskLabel(r.RiskLevel, noColor),
			formatScore(r.Confidence),
			strings.Join(r.Warnings, ","),
		})
	}
	return rows
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	var (
		file        string
		threshold   float64
		flaggedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Rank many products by sakura score",
		Long: "Analyze a JSON array of products (or {\"products\": [...]}) and print them\n" +
			"ranked from most to least suspicious. Products that cannot be parsed or\n" +
			"analyzed are counted as failed and skipped.",
		Example: `  sakura batch -f products.json
  sakura batch -f products.json --threshold 0.5 --flagged-only -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if threshold < 0 || threshold > 1 {
				return errors.InvalidParam("threshold must be within [0, 1]")
			}

			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			items, err := decodeBatchItems(raw)
			if err != nil {
				return err
			}

			products := make([]product.Product, 0, len(items))
			for i, item := range items {
				var p product.Product
				if err := json.Unmarshal(item, &p); err != nil {
					cliCtx.Logger.Warn("skipping unparsable product",
						logging.Int("index", i), logging.Err(err))
					continue
				}
				products = append(products, p)
			}

			results := cliCtx.Detector.BatchAnalyze(products)
			out := buildBatchOutput(len(items), results, threshold, flaggedOnly)
			return PrintResult(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input JSON file (- for stdin)")
	cmd.Flags().Float64Var(&threshold, "threshold", sakura.DefaultSuspicionThreshold, "suspicion threshold in [0, 1]")
	cmd.Flags().BoolVar(&flaggedOnly, "flagged-only", false, "list only products above the threshold")
	return cmd
}

func decodeBatchItems(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.InvalidParam("input is empty")
	}

	var items []json.RawMessage
	if raw[0] == '{' {
		var env struct {
			Products []json.RawMessage `json:"products"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed input JSON")
		}
		items = env.Products
	} else if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed input JSON")
	}

	if len(items) == 0 {
		return nil, errors.InvalidParam("no products in input")
	}
	return items, nil
}

// buildBatchOutput keeps the detector's ranking order.
func buildBatchOutput(total int, results []*sakura.AnalysisResult, threshold float64, flaggedOnly bool) *BatchOutput {
	out := &BatchOutput{
		Total:     total,
		Analyzed:  len(results),
		Failed:    total - len(results),
		Threshold: threshold,
		Results:   make([]BatchRow, 0, len(results)),
	}
	for _, res := range results {
		suspicious := res.IsSuspicious(threshold)
		if suspicious {
			out.Flagged++
		} else if flaggedOnly {
			continue
		}
		warnings := res.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		out.Results = append(out.Results, BatchRow{
			ASIN:       res.ASIN,
			Score:      res.SakuraScore,
			RiskLevel:  sakura.ClassifyReportRisk(res.SakuraScore),
			Confidence: res.ConfidenceLevel,
			Suspicious: suspicious,
			Warnings:   warnings,
		})
	}
	return out
}

//Personal.AI order the ending
