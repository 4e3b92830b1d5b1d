package main

import (
	"math"

	"lg/nutrilog-api/internal/nutrition"
)

// recommendedGoals is the response for GET /api/settings/goals/recommended.
// BMR and TDEE are only present when the profile is complete; otherwise Goals
// echoes the user's current goals unchanged.
type recommendedGoals struct {
	Goals           nutrition.Goals `json:"goals"`
	ProfileComplete bool            `json:"profile_complete"`
	BMR             *int            `json:"bmr,omitempty"`
	TDEE            *int            `json:"tdee,omitempty"`
	TargetCalories  *int            `json:"target_calories,omitempty"`
}

// calculatorProfile converts the stored profile into the calculator's input.
// Unknown enum values pass through; Complete rejects them.
func (p userProfile) calculatorProfile() nutrition.Profile {
	out := nutrition.Profile{Age: p.Age, WeightKG: p.WeightKG, HeightCM: p.HeightCM}
	if p.Sex != nil {
		s := nutrition.Sex(*p.Sex)
		out.Sex = &s
	}
	if p.ActivityLevel != nil {
		l := nutrition.ActivityLevel(*p.ActivityLevel)
		out.ActivityLevel = &l
	}
	if p.Goal != nil {
		g := nutrition.WeightGoal(*p.Goal)
		out.Goal = &g
	}
	return out
}

// recommend runs the goal calculator and fills the computed-only fields.
// No-ops (beyond echoing current) if any required profile field is missing.
func recommend(p userProfile, current nutrition.Goals) recommendedGoals {
	cp := p.calculatorProfile()
	r := recommendedGoals{
		Goals:           nutrition.CalculateGoals(cp, current),
		ProfileComplete: cp.Complete(),
	}
	if r.ProfileComplete {
		bmr := int(math.Round(nutrition.BMR(cp)))
		tdee := int(math.Round(nutrition.TDEE(cp)))
		target := int(math.Round(nutrition.TargetCalories(cp)))
		r.BMR, r.TDEE, r.TargetCalories = &bmr, &tdee, &target
	}
	return r
}
