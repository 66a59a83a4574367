package explain

import (
	"testing"

	rulesModel "github.com/andreypavlenko/postingguard/modules/rules/model"
	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/stretchr/testify/assert"
)

func TestExplain_Summary(t *testing.T) {
	cases := []struct {
		level model.Level
		want  string
	}{
		{model.LevelLikelyReal, "High authenticity (90). No major red flags detected."},
		{model.LevelUncertain, "Uncertain authenticity (60). Some signals warrant caution."},
		{model.LevelLikelyFake, "Low authenticity (20). Multiple red flags detected."},
	}
	scores := map[model.Level]float64{model.LevelLikelyReal: 90, model.LevelUncertain: 60, model.LevelLikelyFake: 20}

	for _, c := range cases {
		got := Explain(scores[c.level], c.level, nil)
		assert.Equal(t, c.want, got.Summary)
	}
}

func TestExplain_RedFlagsAreSortedDescendingAndCappedAtFive(t *testing.T) {
	activated := []model.ActivatedRule{
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.1, Description: "low"},
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.28, Description: "highest"},
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.2, Description: "mid-high"},
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.18, Description: "mid"},
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.12, Description: "low-mid"},
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.08, Description: "lowest"},
		{Signal: string(rulesModel.SignalPositive), EffectiveWeight: 0.5, Description: "should never appear"},
	}

	result := Explain(20, model.LevelLikelyFake, activated)

	require := assert.New(t)
	require.Len(result.RedFlags, 5)
	require.Equal([]string{"highest", "mid-high", "mid", "low-mid", "low"}, result.RedFlags)
	require.NotContains(result.RedFlags, "should never appear")
}

func TestExplain_PositiveSignalsPreserveTableOrder(t *testing.T) {
	activated := []model.ActivatedRule{
		{Signal: string(rulesModel.SignalPositive), EffectiveWeight: 0.1, Description: "first"},
		{Signal: string(rulesModel.SignalNegative), EffectiveWeight: 0.3, Description: "ignored"},
		{Signal: string(rulesModel.SignalPositive), EffectiveWeight: 0.2, Description: "second"},
	}

	result := Explain(70, model.LevelUncertain, activated)
	assert.Equal(t, []string{"first", "second"}, result.PositiveSignals)
}

func TestExplain_EmptyActivatedRulesYieldsEmptySlicesNotNil(t *testing.T) {
	result := Explain(100, model.LevelLikelyReal, nil)
	assert.NotNil(t, result.RedFlags)
	assert.NotNil(t, result.PositiveSignals)
	assert.Empty(t, result.RedFlags)
	assert.Empty(t, result.PositiveSignals)
}
