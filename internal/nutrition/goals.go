package nutrition

import "math"

type Sex string

const (
	SexMale           Sex = "male"
	SexFemale         Sex = "female"
	SexOther          Sex = "other"
	SexPreferNotToSay Sex = "prefer_not_to_say"
)

// ValidSexes is the set accepted on profile updates.
var ValidSexes = map[Sex]bool{
	SexMale:           true,
	SexFemale:         true,
	SexOther:          true,
	SexPreferNotToSay: true,
}

type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly_active"
	ModeratelyActive ActivityLevel = "moderately_active"
	VeryActive       ActivityLevel = "very_active"
	ExtremelyActive  ActivityLevel = "extremely_active"
)

// ActivityMultipliers maps activity levels to their TDEE multiplier. It is the
// single source of truth for valid activity levels, including input validation.
var ActivityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtremelyActive:  1.9,
}

type WeightGoal string

const (
	LoseWeight     WeightGoal = "lose_weight"
	MaintainWeight WeightGoal = "maintain_weight"
	GainWeight     WeightGoal = "gain_weight"
)

// goalAdjustments is the daily calorie offset applied to TDEE for each goal.
var goalAdjustments = map[WeightGoal]float64{
	LoseWeight:     -500,
	MaintainWeight: 0,
	GainWeight:     300,
}

// ValidWeightGoal reports whether g is a known goal.
func ValidWeightGoal(g WeightGoal) bool {
	_, ok := goalAdjustments[g]
	return ok
}

// Macro split of target calories and energy density per gram.
const (
	carbsShare   = 0.40
	proteinShare = 0.30
	fatShare     = 0.30

	kcalPerGramCarbs   = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9

	recommendedFiberG  = 25
	recommendedSugarG  = 50
	recommendedSodiumM = 2300
)

// Profile is the biometric input to the goal calculator. Nil means unknown.
type Profile struct {
	Age           *int
	WeightKG      *float64
	HeightCM      *float64
	Sex           *Sex
	ActivityLevel *ActivityLevel
	Goal          *WeightGoal
}

// Complete reports whether every field the calculator needs is present and
// usable. A missing weight goal is treated as maintain and does not make the
// profile incomplete.
func (p Profile) Complete() bool {
	if p.Age == nil || p.WeightKG == nil || p.HeightCM == nil || p.Sex == nil || p.ActivityLevel == nil {
		return false
	}
	if *p.Age <= 0 || *p.WeightKG <= 0 || *p.HeightCM <= 0 {
		return false
	}
	if _, ok := ActivityMultipliers[*p.ActivityLevel]; !ok {
		return false
	}
	if p.Goal != nil && !ValidWeightGoal(*p.Goal) {
		return false
	}
	return true
}

// Goals are daily targets. Fiber, Sugar and Sodium are optional.
type Goals struct {
	Calories float64 `json:"daily_calories"`
	Carbs    float64 `json:"daily_carbs"`
	Protein  float64 `json:"daily_protein"`
	Fat      float64 `json:"daily_fat"`
	Fiber    Amount  `json:"daily_fiber,omitzero"`
	Sugar    Amount  `json:"daily_sugar,omitzero"`
	Sodium   Amount  `json:"daily_sodium,omitzero"`
}

// DefaultGoals is what a user sees before saving any goals.
func DefaultGoals() Goals {
	return Goals{Calories: 2000, Carbs: 250, Protein: 150, Fat: 65}
}

// BMR is the Mifflin-St Jeor basal metabolic rate. Only males get the +5
// constant; every other value uses -161. Callers check Complete first.
func BMR(p Profile) float64 {
	bmr := 10**p.WeightKG + 6.25**p.HeightCM - 5*float64(*p.Age)
	if *p.Sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE is BMR scaled by the activity multiplier.
func TDEE(p Profile) float64 {
	return BMR(p) * ActivityMultipliers[*p.ActivityLevel]
}

// TargetCalories applies the weight-goal adjustment to TDEE.
func TargetCalories(p Profile) float64 {
	target := TDEE(p)
	if p.Goal != nil {
		target += goalAdjustments[*p.Goal]
	}
	return target
}

// CalculateGoals derives recommended goals from p. An incomplete profile
// returns current unchanged; there is no partial result. A nil Goal is
// treated as maintain.
func CalculateGoals(p Profile, current Goals) Goals {
	if !p.Complete() {
		return current
	}
	target := TargetCalories(p)
	return Goals{
		Calories: math.Round(target),
		Carbs:    math.Round(target * carbsShare / kcalPerGramCarbs),
		Protein:  math.Round(target * proteinShare / kcalPerGramProtein),
		Fat:      math.Round(target * fatShare / kcalPerGramFat),
		Fiber:    Some(recommendedFiberG),
		Sugar:    Some(recommendedSugarG),
		Sodium:   Some(recommendedSodiumM),
	}
}

// GoalProgress is one progress bar: how far current is toward target.
type GoalProgress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
	Over    bool    `json:"over"`
	OverBy  float64 `json:"over_by"`
}

// Progress computes a bar capped at 100%. A non-positive target has no
// meaningful percentage and reports 0.
func Progress(current, target float64) GoalProgress {
	gp := GoalProgress{Current: current, Target: target}
	if target > 0 {
		gp.Percent = math.Round(math.Min(current/target*100, 100))
	}
	if current > target {
		gp.Over = true
		gp.OverBy = current - target
	}
	return gp
}
