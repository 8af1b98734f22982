package predict

import (
	"snookerviz/internal/snooker"

	"github.com/google/cel-go/cel"
)

// NewMatchupEnv declares the variables a bias rule can read.
//
//	a_<ball>, b_<ball>  each player's frame-weighted average
//	t_<ball>            the threshold
//	c_<ball>            the pooled average of both players
//	diff_<ball>         pooled percent difference over the threshold
//	a_games, b_games, a_frames, b_frames
func NewMatchupEnv() (*cel.Env, error) {
	opts := []cel.EnvOption{
		cel.Variable("a_games", cel.IntType),
		cel.Variable("b_games", cel.IntType),
		cel.Variable("a_frames", cel.IntType),
		cel.Variable("b_frames", cel.IntType),
	}
	for _, ball := range snooker.Balls {
		k := ball.Key()
		opts = append(opts,
			cel.Variable("a_"+k, cel.DoubleType),
			cel.Variable("b_"+k, cel.DoubleType),
			cel.Variable("t_"+k, cel.DoubleType),
			cel.Variable("c_"+k, cel.DoubleType),
			cel.Variable("diff_"+k, cel.DoubleType),
		)
	}
	return cel.NewEnv(opts...)
}
