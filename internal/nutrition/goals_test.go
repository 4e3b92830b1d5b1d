package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeProfile builds a fully populated profile. Tests nil out individual
// fields to exercise the incomplete-profile path.
func makeProfile(sex Sex, age int, weightKG, heightCM float64, level ActivityLevel, goal WeightGoal) Profile {
	return Profile{
		Age:           &age,
		WeightKG:      &weightKG,
		HeightCM:      &heightCM,
		Sex:           &sex,
		ActivityLevel: &level,
		Goal:          &goal,
	}
}

func referenceProfile() Profile {
	return makeProfile(SexMale, 30, 70, 175, ModeratelyActive, MaintainWeight)
}

/* ─── Incomplete profiles ────────────────────────────────────────────── */

func TestCalculateGoals_IncompleteProfileReturnsCurrent(t *testing.T) {
	current := Goals{Calories: 1800, Carbs: 200, Protein: 120, Fat: 60, Sodium: Some(2000)}

	cases := []struct {
		name  string
		mutFn func(p *Profile)
	}{
		{"nil Age", func(p *Profile) { p.Age = nil }},
		{"nil WeightKG", func(p *Profile) { p.WeightKG = nil }},
		{"nil HeightCM", func(p *Profile) { p.HeightCM = nil }},
		{"nil Sex", func(p *Profile) { p.Sex = nil }},
		{"nil ActivityLevel", func(p *Profile) { p.ActivityLevel = nil }},
		{"zero Age", func(p *Profile) { zero := 0; p.Age = &zero }},
		{"zero WeightKG", func(p *Profile) { zero := 0.0; p.WeightKG = &zero }},
		{"unknown ActivityLevel", func(p *Profile) { l := ActivityLevel("couch"); p.ActivityLevel = &l }},
		{"unknown Goal", func(p *Profile) { g := WeightGoal("bulk"); p.Goal = &g }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := referenceProfile()
			tc.mutFn(&p)
			assert.Equal(t, current, CalculateGoals(p, current))
		})
	}
}

func TestCalculateGoals_MissingGoalMeansMaintain(t *testing.T) {
	p := referenceProfile()
	p.Goal = nil
	require.True(t, p.Complete())
	assert.Equal(t, CalculateGoals(referenceProfile(), DefaultGoals()), CalculateGoals(p, DefaultGoals()))
}

/* ─── Formula accuracy ───────────────────────────────────────────────── */

// 10*70 + 6.25*175 - 5*30 + 5 = 1736.25; x1.55 = 2691.19.
func TestCalculateGoals_ReferenceProfile(t *testing.T) {
	p := referenceProfile()
	assert.InDelta(t, 1736.25, BMR(p), eps)
	assert.InDelta(t, 2691.1875, TDEE(p), eps)

	got := CalculateGoals(p, DefaultGoals())
	assert.Equal(t, 2691.0, got.Calories)
	assert.Equal(t, 269.0, got.Carbs)
	assert.Equal(t, 202.0, got.Protein)
	assert.Equal(t, 90.0, got.Fat)
	assert.Equal(t, Some(25), got.Fiber)
	assert.Equal(t, Some(50), got.Sugar)
	assert.Equal(t, Some(2300), got.Sodium)
}

func TestBMR_SexConstant(t *testing.T) {
	male := referenceProfile()
	for _, sex := range []Sex{SexFemale, SexOther, SexPreferNotToSay} {
		p := referenceProfile()
		p.Sex = &sex
		assert.InDelta(t, BMR(male)-166, BMR(p), eps, string(sex))
	}
}

func TestTDEE_Multipliers(t *testing.T) {
	base := BMR(referenceProfile())
	for level, mult := range ActivityMultipliers {
		p := referenceProfile()
		p.ActivityLevel = &level
		assert.InDelta(t, base*mult, TDEE(p), eps, string(level))
	}
}

func TestTargetCalories_GoalAdjustment(t *testing.T) {
	cases := []struct {
		goal WeightGoal
		diff float64
	}{
		{LoseWeight, -500},
		{MaintainWeight, 0},
		{GainWeight, 300},
	}
	tdee := TDEE(referenceProfile())
	for _, tc := range cases {
		p := referenceProfile()
		p.Goal = &tc.goal
		assert.InDelta(t, tdee+tc.diff, TargetCalories(p), eps, string(tc.goal))
	}
}

/* ─── Progress bars ──────────────────────────────────────────────────── */

func TestProgress(t *testing.T) {
	cases := []struct {
		name         string
		current, tgt float64
		percent      float64
		over         bool
		overBy       float64
	}{
		{"under", 500, 2000, 25, false, 0},
		{"exact", 2000, 2000, 100, false, 0},
		{"over caps at 100", 2500, 2000, 100, true, 500},
		{"zero target", 10, 0, 0, true, 10},
		{"nothing logged", 0, 2000, 0, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Progress(tc.current, tc.tgt)
			assert.Equal(t, tc.percent, got.Percent)
			assert.Equal(t, tc.over, got.Over)
			assert.Equal(t, tc.overBy, got.OverBy)
		})
	}
}
