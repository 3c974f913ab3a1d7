package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// DistributionOutput is printed by `sakura heuristics distribution`.
type DistributionOutput struct {
	Distribution []int   `json:"distribution"`
	Bias         float64 `json:"bias"`
}

func (o *DistributionOutput) String() string {
	return fmt.Sprintf("distribution %v: bias %.3f", o.Distribution, o.Bias)
}

// MerchantOutput is printed by `sakura heuristics merchant`.
type MerchantOutput struct {
	Ratings     []float64 `json:"ratings"`
	Reliability float64   `json:"reliability"`
}

func (o *MerchantOutput) String() string {
	return fmt.Sprintf("%d ratings: reliability %.2f", len(o.Ratings), o.Reliability)
}

// NewHeuristicsCmd groups the standalone heuristics.
func NewHeuristicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heuristics",
		Short: "Run a single detection heuristic",
	}
	cmd.AddCommand(newDistributionCmd(), newMerchantCmd())
	return cmd
}

func newDistributionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distribution COUNTS",
		Short: "Rating distribution bias from five star-bucket counts",
		Long: "COUNTS is a comma separated list of review counts for 1..5 stars.\n" +
			"The bias is 0 for a uniform spread and approaches 1 as reviews pile up in one bucket.",
		Example: "  sakura heuristics distribution 10,25,45,65,55",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseInts(args[0])
			if err != nil {
				return err
			}
			if len(counts) != 5 {
				return errors.InvalidParam(fmt.Sprintf("distribution needs 5 buckets, got %d", len(counts)))
			}
			for _, c := range counts {
				if c < 0 {
					return errors.InvalidParam("bucket counts must be non-negative")
				}
			}
			return PrintResult(cmd, &DistributionOutput{
				Distribution: counts,
				Bias:         sakura.CalculateDistributionBias(counts),
			})
		},
	}
}

func newMerchantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merchant RATINGS",
		Short: "Merchant reliability from the ratings of its products",
		Example: "  sakura heuristics merchant 4.2,3.9,4.5,4.1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ratings, err := parseFloats(args[0])
			if err != nil {
				return err
			}
			for _, r := range ratings {
				if r < product.MinRating || r > product.MaxRating {
					return errors.InvalidParam(fmt.Sprintf("rating %v is out of range [1, 5]", r))
				}
			}
			return PrintResult(cmd, &MerchantOutput{
				Ratings:     ratings,
				Reliability: sakura.CalculateMerchantReliability(ratings),
			})
		},
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, p := range splitList(s) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.InvalidParam(fmt.Sprintf("invalid count %q", p))
		}
		out = append(out, n)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, p := range splitList(s) {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.InvalidParam(fmt.Sprintf("invalid rating %q", p))
		}
		out = append(out, f)
	}
	return out, nil
}

//Personal.AI order the ending
