package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrilog-api/internal/nutrition"
)

// makeProfile constructs a fully-populated userProfile for recommend tests.
// Individual tests nil out specific fields to exercise missing-field guards.
func makeProfile(sex string, age int, heightCM, weightKG float64, activityLevel, goal string) userProfile {
	return userProfile{
		UserID:        1,
		Age:           &age,
		HeightCM:      &heightCM,
		WeightKG:      &weightKG,
		Sex:           &sex,
		ActivityLevel: &activityLevel,
		Goal:          &goal,
	}
}

func referenceUserProfile() userProfile {
	return makeProfile("male", 30, 175, 70, "moderately_active", "maintain_weight")
}

/* ─── Missing-field guard tests ──────────────────────────────────────── */

// TestRecommend_MissingFields verifies that the current goals are echoed back
// when any required profile field is nil or unusable.
func TestRecommend_MissingFields(t *testing.T) {
	current := nutrition.Goals{Calories: 1800, Carbs: 200, Protein: 120, Fat: 60}

	cases := []struct {
		name  string
		mutFn func(p *userProfile)
	}{
		{"nil Sex", func(p *userProfile) { p.Sex = nil }},
		{"nil Age", func(p *userProfile) { p.Age = nil }},
		{"nil HeightCM", func(p *userProfile) { p.HeightCM = nil }},
		{"nil WeightKG", func(p *userProfile) { p.WeightKG = nil }},
		{"nil ActivityLevel", func(p *userProfile) { p.ActivityLevel = nil }},
		{"unknown ActivityLevel", func(p *userProfile) { l := "couch"; p.ActivityLevel = &l }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := referenceUserProfile()
			tc.mutFn(&p)
			got := recommend(p, current)
			assert.False(t, got.ProfileComplete)
			assert.Equal(t, current, got.Goals)
			assert.Nil(t, got.BMR)
			assert.Nil(t, got.TDEE)
		})
	}
}

/* ─── Formula accuracy ───────────────────────────────────────────────── */

// TestRecommend_ReferenceProfile checks the stored-profile path end to end:
// BMR 1736, TDEE 2691, macros split 40/30/30.
func TestRecommend_ReferenceProfile(t *testing.T) {
	got := recommend(referenceUserProfile(), nutrition.DefaultGoals())

	require.True(t, got.ProfileComplete)
	require.NotNil(t, got.BMR)
	assert.Equal(t, 1736, *got.BMR)
	assert.Equal(t, 2691, *got.TDEE)
	assert.Equal(t, 2691, *got.TargetCalories)
	assert.Equal(t, 2691.0, got.Goals.Calories)
	assert.Equal(t, 269.0, got.Goals.Carbs)
	assert.Equal(t, 202.0, got.Goals.Protein)
	assert.Equal(t, 90.0, got.Goals.Fat)
}

func TestRecommend_GoalAdjustsTarget(t *testing.T) {
	lose := referenceUserProfile()
	g := "lose_weight"
	lose.Goal = &g

	got := recommend(lose, nutrition.DefaultGoals())
	assert.Equal(t, 2691, *got.TDEE)
	assert.Equal(t, 2191, *got.TargetCalories)
	assert.Equal(t, 2191.0, got.Goals.Calories)
}

func TestRecommend_NoGoalMeansMaintain(t *testing.T) {
	p := referenceUserProfile()
	p.Goal = nil

	got := recommend(p, nutrition.DefaultGoals())
	assert.True(t, got.ProfileComplete)
	assert.Equal(t, 2691.0, got.Goals.Calories)
}
