package predict

import (
	"testing"

	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func features(aBlack, bBlack float64, frames float64) Features {
	games := []snooker.Game{
		{Player1Name: "A", Player2Name: "X", Frames: frames, Proportions: map[snooker.Ball]float64{snooker.Black: aBlack}},
		{Player1Name: "Y", Player2Name: "B", Frames: frames, Proportions: map[snooker.Ball]float64{snooker.Black: bBlack}},
	}
	return NewFeatures(stats.ForPlayer(games, "A"), stats.ForPlayer(games, "B"), stats.DefaultThresholds())
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(`
- name: both strong on black
  when: a_black > t_black && b_black > t_black
  then:
    black: 0.3
- when: a_frames + b_frames >= 20
  then:
    sample: 0.1
`))
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "both strong on black", rules[0].Name)
	assert.Equal(t, "rule-2", rules[1].Name)
	assert.Equal(t, Bias{"black": 0.3}, rules[0].Then)
}

func TestParseRules_Empty(t *testing.T) {
	rules, err := ParseRules([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestParseRules_InvalidYAML(t *testing.T) {
	_, err := ParseRules([]byte("when: [[[["))
	assert.Error(t, err)

	_, err = ParseRules([]byte("not: a list"))
	assert.Error(t, err)
}

func TestParseRules_UnknownVariable(t *testing.T) {
	_, err := ParseRules([]byte(`
- when: a_red > 0.1
  then:
    red: 1
`))
	assert.Error(t, err)
}

func TestParseRules_NonBooleanCondition(t *testing.T) {
	_, err := ParseRules([]byte(`
- when: a_black + 1.0
  then:
    black: 1
`))
	assert.ErrorContains(t, err, "boolean")
}

func TestRule_Eval(t *testing.T) {
	rules, err := ParseRules([]byte(`
- when: a_black > t_black && diff_black > 0.0
  then:
    black: 0.5
`))
	require.NoError(t, err)

	bias, err := rules[0].Eval(features(0.5, 0.4, 10).Activation())
	require.NoError(t, err)
	assert.Equal(t, Bias{"black": 0.5}, bias)

	bias, err = rules[0].Eval(features(0.1, 0.1, 10).Activation())
	require.NoError(t, err)
	assert.Nil(t, bias)
}

func TestRule_EvalUninitialized(t *testing.T) {
	r := Rule{Name: "raw", When: "true"}
	_, err := r.Eval(map[string]any{})
	assert.Error(t, err)
}

func TestFeatures_Activation(t *testing.T) {
	vars := features(0.5, 0.3, 10).Activation()
	assert.Equal(t, 0.5, vars["a_black"])
	assert.Equal(t, 0.3, vars["b_black"])
	assert.Equal(t, 0.357, vars["t_black"])
	assert.InDelta(t, 0.4, vars["c_black"], 1e-12)
	assert.Equal(t, int64(1), vars["a_games"])
	assert.Equal(t, int64(10), vars["b_frames"])
	assert.Contains(t, vars, "diff_baulk")
}

func TestLoadRules_SampleFile(t *testing.T) {
	rules, err := LoadRules("../../configs/rules.yaml")
	require.NoError(t, err)
	assert.Len(t, rules, 4)
	assert.Equal(t, "black-heavy-pair", rules[0].Name)
}
