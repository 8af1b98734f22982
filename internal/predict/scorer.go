package predict

import (
	"context"
	"log/slog"

	"snookerviz/internal/snooker"
)

// ThresholdScorer leans each ball by how far the pooled average sits from its
// threshold: +100% or more maps to 1, -100% to -1.
type ThresholdScorer struct{}

// Score implements Scorer.
func (ThresholdScorer) Score(_ context.Context, f Features) (Bias, error) {
	bias := make(Bias)
	if f.Pooled.FrameSum <= 0 {
		return bias, nil
	}
	for _, ball := range snooker.Balls {
		if f.Thresholds[ball] <= 0 {
			continue
		}
		bias[ball.Key()] = clamp(f.PooledDiff(ball)/100, -1, 1)
	}
	return bias, nil
}

// RulesScorer sums the Then values of every matching rule.
// Rule errors are logged and the rule is skipped.
type RulesScorer struct {
	rules []Rule
}

// NewRulesScorer creates a scorer over compiled rules.
func NewRulesScorer(rules []Rule) *RulesScorer {
	return &RulesScorer{rules: rules}
}

// Score implements Scorer.
func (rs *RulesScorer) Score(_ context.Context, f Features) (Bias, error) {
	bias := make(Bias)
	activation := f.Activation()
	for i := range rs.rules {
		delta, err := rs.rules[i].Eval(activation)
		if err != nil {
			slog.Error("rule eval", "error", err, "rule", rs.rules[i].Name)
			continue
		}
		for k, d := range delta {
			bias[k] = clamp(bias[k]+d, -1, 1)
		}
	}
	return bias, nil
}

// CompositeScorer adds up the biases of several scorers, clamped to [-1, 1].
type CompositeScorer struct {
	scorers []Scorer
}

// NewCompositeScorer combines scorers in order.
func NewCompositeScorer(scorers ...Scorer) *CompositeScorer {
	return &CompositeScorer{scorers: scorers}
}

// Score implements Scorer. The first failing scorer aborts the evaluation.
func (cs *CompositeScorer) Score(ctx context.Context, f Features) (Bias, error) {
	result := make(Bias)
	for _, s := range cs.scorers {
		bias, err := s.Score(ctx, f)
		if err != nil {
			return result, err
		}
		for k, v := range bias {
			result[k] = clamp(result[k]+v, -1, 1)
		}
	}
	return result, nil
}
