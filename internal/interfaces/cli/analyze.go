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

// AnalyzeInput is the document read by `sakura analyze`. A bare product
// object is accepted as well.
type AnalyzeInput struct {
	Product          *product.Product         `json:"product"`
	Reviews          []product.Review         `json:"reviews,omitempty"`
	History          []product.RatingSnapshot `json:"history,omitempty"`
	Peers            []product.Product        `json:"peers,omitempty"`
	MerchantProducts []product.Product        `json:"merchant_products,omitempty"`
}

// AnalyzeOutput is printed by `sakura analyze`.
type AnalyzeOutput struct {
	Report             sakura.Report              `json:"report"`
	Suspicious         bool                       `json:"suspicious"`
	Threshold          float64                    `json:"threshold"`
	Category           *sakura.CategoryComparison `json:"category,omitempty"`
	Signals            *sakura.Signals            `json:"signals,omitempty"`
	ComprehensiveScore *float64                   `json:"comprehensive_score,omitempty"`
}

func (o *AnalyzeOutput) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (o *AnalyzeOutput) TableRows(noColor bool) [][]string {
	r := o.Report
	rows := [][]string{
		{"ASIN", r.ProductASIN},
		{"Sakura score", formatScore(r.SakuraScore)},
		{"Risk", riskLabel(r.RiskLevel, noColor)},
		{"Confidence", formatScore(r.ConfidenceLevel)},
		{"Suspicious", fmt.Sprintf("%t (threshold %.2f)", o.Suspicious, o.Threshold)},
	}
	if len(r.Warnings) > 0 {
		rows = append(rows, []string{"Warnings", strings.Join(r.Warnings, ", ")})
	}
	if o.ComprehensiveScore != nil {
		rows = append(rows, []string{"Comprehensive score", formatScore(*o.ComprehensiveScore)})
	}
	if o.Category != nil && !o.Category.NoPeers {
		rows = append(rows, []string{"Rating percentile", fmt.Sprintf("%.1f", o.Category.PercentileRating)})
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"Recommendation", rec})
	}
	return rows
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	var (
		file      string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score one product for review manipulation",
		Long: "Analyze a product listing, optionally with its reviews, rating history,\n" +
			"category peers and sibling merchant products. Reads JSON from -f (use - for stdin).",
		Example: `  sakura analyze -f product.json
  cat listing.json | sakura analyze -f - --threshold 0.5 -o json`,
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
			in, err := decodeAnalyzeInput(raw)
			if err != nil {
				return err
			}

			out, err := runAnalyze(cliCtx.Detector, in, threshold)
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug("analysis finished",
				logging.ASIN(out.Report.ProductASIN), logging.Score(out.Report.SakuraScore))
			return PrintResult(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input JSON file (- for stdin)")
	cmd.Flags().Float64Var(&threshold, "threshold", sakura.DefaultSuspicionThreshold, "suspicion threshold in [0, 1]")
	return cmd
}

// decodeAnalyzeInput accepts either an AnalyzeInput envelope or a bare
// product.
func decodeAnalyzeInput(raw []byte) (*AnalyzeInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.InvalidParam("input is empty")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed input JSON")
	}

	in := &AnalyzeInput{}
	if _, ok := probe["product"]; !ok {
		var p product.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, asInputError(err)
		}
		in.Product = &p
		return in, nil
	}
	if err := json.Unmarshal(raw, in); err != nil {
		return nil, asInputError(err)
	}
	if in.Product == nil {
		return nil, errors.New(errors.ErrCodeProductInvalid, "product is required")
	}
	return in, nil
}

func asInputError(err error) error {
	if errors.GetCode(err) != errors.CodeUnknown {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed input JSON")
}

func runAnalyze(d *sakura.Detector, in *AnalyzeInput, threshold float64) (*AnalyzeOutput, error) {
	for _, r := range in.Reviews {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	res, err := d.AnalyzeProduct(*in.Product, in.Reviews, in.History)
	if err != nil {
		return nil, err
	}

	out := &AnalyzeOutput{
		Report:     res.ToReport(),
		Suspicious: res.IsSuspicious(threshold),
		Threshold:  threshold,
	}
	if len(in.Peers) > 0 {
		cmp := sakura.CompareWithCategory(*in.Product, in.Peers)
		out.Category = &cmp
	}
	if len(in.Reviews) > 0 || len(in.Peers) > 0 || len(in.MerchantProducts) > 0 {
		sig := sakura.ComputeSignals(*in.Product, in.Reviews, in.Peers, in.MerchantProducts)
		out.Signals = &sig
		out.ComprehensiveScore = sakura.Float(sakura.CalculateComprehensiveScore(sig))
	}
	return out, nil
}

//Personal.AI order the ending
