package main

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrilog-api/internal/nutrition"
)

// validThemes is the set of allowed values for user_app_preferences.theme.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validThemes = map[string]bool{
	"light":  true,
	"dark":   true,
	"system": true,
}

// reminderTimePattern accepts 24-hour HH:MM.
var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

/* ─── Goals ──────────────────────────────────────────────────────────── */

// getGoals returns the user's daily nutrition goals, or the defaults
// (2000 kcal / 250 g carbs / 150 g protein / 65 g fat) if none are saved.
// GET /api/settings/goals.
func (h *Handler) getGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	goals, err := loadGoals(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	c.JSON(http.StatusOK, goals)
}

// putGoals saves the user's daily nutrition goals.
// PUT /api/settings/goals. Replaces every field; omitted optional goals are cleared.
func (h *Handler) putGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body goalsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := queryOne[nutritionGoalsRow](h.db, c,
		`INSERT INTO user_nutrition_goals (user_id, daily_calories, daily_carbs, daily_protein, daily_fat,
			daily_fiber, daily_sugar, daily_sodium)
		 VALUES (@userID, @calories, @carbs, @protein, @fat, @fiber, @sugar, @sodium)
		 ON CONFLICT (user_id) DO UPDATE SET
			daily_calories = EXCLUDED.daily_calories,
			daily_carbs    = EXCLUDED.daily_carbs,
			daily_protein  = EXCLUDED.daily_protein,
			daily_fat      = EXCLUDED.daily_fat,
			daily_fiber    = EXCLUDED.daily_fiber,
			daily_sugar    = EXCLUDED.daily_sugar,
			daily_sodium   = EXCLUDED.daily_sodium,
			updated_at     = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "calories": body.DailyCalories, "carbs": body.DailyCarbs,
			"protein": body.DailyProtein, "fat": body.DailyFat,
			"fiber": body.DailyFiber, "sugar": body.DailySugar, "sodium": body.DailySodium,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save goals")
		return
	}

	c.JSON(http.StatusOK, row.goals())
}

// getRecommendedGoals runs the goal calculator against the saved profile.
// GET /api/settings/goals/recommended. Nothing is saved; the client PUTs the
// recommendation to /api/settings/goals if the user accepts it.
func (h *Handler) getRecommendedGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	profile, err := loadProfile(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	current, err := loadGoals(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	c.JSON(http.StatusOK, recommend(profile, current))
}

/* ─── App preferences ────────────────────────────────────────────────── */

// validate rejects unknown enum values and malformed reminder times.
func (r patchPreferencesRequest) validate() error {
	if r.Theme != nil && !validThemes[*r.Theme] {
		return errors.New("theme must be one of: light, dark, system")
	}
	if r.UnitSystem != nil && !nutrition.UnitSystem(*r.UnitSystem).Valid() {
		return errors.New("unit_system must be one of: metric, imperial")
	}
	if r.ReminderTime != nil && *r.ReminderTime != "" && !reminderTimePattern.MatchString(*r.ReminderTime) {
		return errors.New("reminder_time must be HH:MM")
	}
	return nil
}

// loadPreferences returns the saved preferences or the defaults.
func loadPreferences(q querier, c *gin.Context, userID int) (appPreferences, error) {
	p, err := queryOne[appPreferences](q, c,
		"SELECT * FROM user_app_preferences WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultPreferences(userID), nil
	}
	return p, err
}

// getPreferences returns the user's app preferences.
// GET /api/settings/preferences.
func (h *Handler) getPreferences(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := loadPreferences(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch preferences")
		return
	}

	c.JSON(http.StatusOK, p)
}

// putPreferences updates only the provided preference fields.
// PUT /api/settings/preferences. Uses pointer fields in the request body to
// distinguish "not provided" from zero; only non-nil fields get updated. An
// empty reminder_time clears the reminder.
func (h *Handler) putPreferences(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchPreferencesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := body.validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.Theme != nil {
		setClauses = append(setClauses, "theme = @theme")
		args["theme"] = *body.Theme
	}
	if body.Notifications != nil {
		setClauses = append(setClauses, "notifications = @notifications")
		args["notifications"] = *body.Notifications
	}
	if body.WeeklyReports != nil {
		setClauses = append(setClauses, "weekly_reports = @weeklyReports")
		args["weeklyReports"] = *body.WeeklyReports
	}
	if body.ReminderTime != nil {
		setClauses = append(setClauses, "reminder_time = NULLIF(@reminderTime, '')")
		args["reminderTime"] = *body.ReminderTime
	}
	if body.UnitSystem != nil {
		setClauses = append(setClauses, "unit_system = @unitSystem")
		args["unitSystem"] = *body.UnitSystem
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	setClauses = append(setClauses, "updated_at = now()")

	var p appPreferences
	err := h.inTx(c, func(tx pgx.Tx) error {
		// Make sure the row exists so the UPDATE below always has a target.
		if _, err := tx.Exec(c,
			"INSERT INTO user_app_preferences (user_id) VALUES (@userID) ON CONFLICT (user_id) DO NOTHING",
			pgx.NamedArgs{"userID": userID}); err != nil {
			return err
		}
		var err error
		p, err = queryOne[appPreferences](tx, c,
			"UPDATE user_app_preferences SET "+strings.Join(setClauses, ", ")+
				" WHERE user_id = @userID RETURNING *", args)
		return err
	})
	if err != nil {
		log.Printf("[putPreferences] update failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, p)
}
