package main

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrilog-api/internal/nutrition"
)

// profileUpdate is a validated profile patch with every measurement in metric.
type profileUpdate struct {
	DisplayName   *string
	Age           *int
	HeightCM      *float64
	WeightKG      *float64
	Sex           *string
	ActivityLevel *string
	Goal          *string
}

// resolve validates the request and converts imperial input to metric.
func (r patchProfileRequest) resolve() (profileUpdate, error) {
	u := profileUpdate{DisplayName: r.DisplayName, Age: r.Age, Sex: r.Sex, ActivityLevel: r.ActivityLevel, Goal: r.Goal}

	units := nutrition.Metric
	if r.Units != nil {
		units = nutrition.UnitSystem(*r.Units)
		if !units.Valid() {
			return u, errors.New("units must be one of: metric, imperial")
		}
	}

	switch units {
	case nutrition.Imperial:
		if r.HeightCM != nil {
			return u, errors.New("height_cm is not accepted with imperial units; send height_ft and height_in")
		}
		if r.Weight != nil {
			kg := math.Round(nutrition.LbToKg(*r.Weight)*10) / 10
			u.WeightKG = &kg
		}
		if r.HeightFt != nil || r.HeightIn != nil {
			ft, in := 0, 0.0
			if r.HeightFt != nil {
				ft = *r.HeightFt
			}
			if r.HeightIn != nil {
				in = *r.HeightIn
			}
			cm := nutrition.FtInToCm(ft, in)
			if cm <= 0 {
				return u, errors.New("height must be greater than 0")
			}
			u.HeightCM = &cm
		}
	default:
		if r.HeightFt != nil || r.HeightIn != nil {
			return u, errors.New("height_ft and height_in require imperial units")
		}
		u.WeightKG = r.Weight
		u.HeightCM = r.HeightCM
	}

	if u.Sex != nil && !nutrition.ValidSexes[nutrition.Sex(*u.Sex)] {
		return u, errors.New("sex must be one of: male, female, other, prefer_not_to_say")
	}
	if u.ActivityLevel != nil {
		if _, ok := nutrition.ActivityMultipliers[nutrition.ActivityLevel(*u.ActivityLevel)]; !ok {
			return u, errors.New("activity_level must be one of: sedentary, lightly_active, moderately_active, very_active, extremely_active")
		}
	}
	if u.Goal != nil && !nutrition.ValidWeightGoal(nutrition.WeightGoal(*u.Goal)) {
		return u, errors.New("goal must be one of: lose_weight, maintain_weight, gain_weight")
	}
	return u, nil
}

// loadProfile returns the saved profile, or an empty one if none exists yet.
func loadProfile(q querier, c *gin.Context, userID int) (userProfile, error) {
	p, err := queryOne[userProfile](q, c,
		`SELECT user_id, display_name, age, height_cm, weight_kg, sex, activity_level, goal, updated_at
		 FROM user_profiles WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return userProfile{UserID: userID}, nil
	}
	return p, err
}

// withDisplay fills the weight/height display strings for the given system.
func (p userProfile) withDisplay(units nutrition.UnitSystem) userProfile {
	if p.WeightKG != nil {
		s := nutrition.FormatWeight(*p.WeightKG, units)
		p.WeightDisplay = &s
	}
	if p.HeightCM != nil {
		s := nutrition.FormatHeight(*p.HeightCM, units)
		p.HeightDisplay = &s
	}
	return p
}

// getProfile returns the user's biometric profile. Measurements are stored in
// metric; weight_display and height_display follow the unit_system preference.
// GET /api/settings/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := loadProfile(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	prefs, err := loadPreferences(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch preferences")
		return
	}

	c.JSON(http.StatusOK, p.withDisplay(nutrition.UnitSystem(prefs.UnitSystem)))
}

// putProfile updates only the provided profile fields.
// PUT /api/settings/profile. Body: { "units"?: "metric"|"imperial", "weight"?,
// "height_cm"? | "height_ft"?/"height_in"?, "age"?, "sex"?, "activity_level"?, "goal"?, "display_name"? }.
// Imperial values are converted and stored as metric.
func (h *Handler) putProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := body.resolve()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if u.DisplayName != nil {
		setClauses = append(setClauses, "display_name = NULLIF(@displayName, '')")
		args["displayName"] = strings.TrimSpace(*u.DisplayName)
	}
	if u.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *u.Age
	}
	if u.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *u.HeightCM
	}
	if u.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *u.WeightKG
	}
	if u.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *u.Sex
	}
	if u.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *u.ActivityLevel
	}
	if u.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *u.Goal
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	setClauses = append(setClauses, "updated_at = now()")

	var p userProfile
	err = h.inTx(c, func(tx pgx.Tx) error {
		if _, err := tx.Exec(c,
			"INSERT INTO user_profiles (user_id) VALUES (@userID) ON CONFLICT (user_id) DO NOTHING",
			pgx.NamedArgs{"userID": userID}); err != nil {
			return err
		}
		var err error
		p, err = queryOne[userProfile](tx, c,
			"UPDATE user_profiles SET "+strings.Join(setClauses, ", ")+
				` WHERE user_id = @userID
				 RETURNING user_id, display_name, age, height_cm, weight_kg, sex, activity_level, goal, updated_at`, args)
		return err
	})
	if err != nil {
		log.Printf("[putProfile] update failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	units := nutrition.Metric
	if body.Units != nil {
		units = nutrition.UnitSystem(*body.Units)
	}
	c.JSON(http.StatusOK, p.withDisplay(units))
}
