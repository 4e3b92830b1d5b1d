package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"lg/nutrilog-api/internal/nutrition"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(nutrition.DateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+nutrition.DateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. Password is hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// foodCatalogItem maps to food_catalog. Values are per single serving.
// Optional nutrients are pointers so NULL scans to nil and JSON omits them.
type foodCatalogItem struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	Calories     float64    `json:"calories" db:"calories"`
	Carbs        float64    `json:"carbs" db:"carbs"`
	Protein      float64    `json:"protein" db:"protein"`
	TotalFat     float64    `json:"total_fat" db:"total_fat"`
	Fiber        *float64   `json:"fiber,omitempty" db:"fiber"`
	Sugar        *float64   `json:"sugar,omitempty" db:"sugar"`
	Sodium       *float64   `json:"sodium,omitempty" db:"sodium"`
	Cholesterol  *float64   `json:"cholesterol,omitempty" db:"cholesterol"`
	SaturatedFat *float64   `json:"saturated_fat,omitempty" db:"saturated_fat"`
	TransFat     *float64   `json:"trans_fat,omitempty" db:"trans_fat"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at" db:"updated_at"`
}

func (f foodCatalogItem) nutrients() nutrition.Nutrients {
	return nutrition.Nutrients{
		Calories:     f.Calories,
		Carbs:        f.Carbs,
		Protein:      f.Protein,
		TotalFat:     f.TotalFat,
		Fiber:        nutrition.FromPtr(f.Fiber),
		Sugar:        nutrition.FromPtr(f.Sugar),
		Sodium:       nutrition.FromPtr(f.Sodium),
		Cholesterol:  nutrition.FromPtr(f.Cholesterol),
		SaturatedFat: nutrition.FromPtr(f.SaturatedFat),
		TransFat:     nutrition.FromPtr(f.TransFat),
	}
}

// meal maps to the meals table. Totals are never stored; see mealResponse.
type meal struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      int        `json:"user_id" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   *time.Time `json:"created_at" db:"created_at"`
}

// mealFoodRow is a meal_foods row LEFT JOINed to the current catalog item.
// The catalog columns are all NULL when the item has been deleted.
type mealFoodRow struct {
	ID            uuid.UUID `db:"id"`
	MealID        uuid.UUID `db:"meal_id"`
	FoodCatalogID uuid.UUID `db:"food_catalog_id"`
	Quantity      float64   `db:"quantity"`
	Position      int       `db:"position"`
	FoodName      *string   `db:"food_name"`
	Calories      *float64  `db:"calories"`
	Carbs         *float64  `db:"carbs"`
	Protein       *float64  `db:"protein"`
	TotalFat      *float64  `db:"total_fat"`
	Fiber         *float64  `db:"fiber"`
	Sugar         *float64  `db:"sugar"`
	Sodium        *float64  `db:"sodium"`
	Cholesterol   *float64  `db:"cholesterol"`
	SaturatedFat  *float64  `db:"saturated_fat"`
	TransFat      *float64  `db:"trans_fat"`
}

// food returns the per-unit nutrients, or nil for a dangling line.
func (r mealFoodRow) food() *nutrition.Nutrients {
	if r.FoodName == nil || r.Calories == nil {
		return nil
	}
	n := nutrition.Nutrients{
		Calories:     *r.Calories,
		Carbs:        deref(r.Carbs),
		Protein:      deref(r.Protein),
		TotalFat:     deref(r.TotalFat),
		Fiber:        nutrition.FromPtr(r.Fiber),
		Sugar:        nutrition.FromPtr(r.Sugar),
		Sodium:       nutrition.FromPtr(r.Sodium),
		Cholesterol:  nutrition.FromPtr(r.Cholesterol),
		SaturatedFat: nutrition.FromPtr(r.SaturatedFat),
		TransFat:     nutrition.FromPtr(r.TransFat),
	}
	return &n
}

// mealFoodResponse is one line of a meal in API responses. Food is nil and
// Missing is true when the catalog item no longer exists.
type mealFoodResponse struct {
	ID            uuid.UUID            `json:"id"`
	FoodCatalogID uuid.UUID            `json:"food_catalog_id"`
	Quantity      float64              `json:"quantity"`
	Name          string               `json:"name,omitempty"`
	Food          *nutrition.Nutrients `json:"food"`
	Missing       bool                 `json:"missing"`
}

// mealResponse is a meal with its lines and live totals, recomputed from the
// current catalog on every read.
type mealResponse struct {
	meal
	Foods  []mealFoodResponse  `json:"foods"`
	Totals nutrition.Nutrients `json:"totals"`
}

// dailyFoodLog maps to daily_food_logs. The nutrient columns are a snapshot
// taken when the entry was created.
type dailyFoodLog struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        int        `json:"user_id" db:"user_id"`
	LogDate       DateOnly   `json:"date" db:"log_date"`
	Type          string     `json:"type" db:"type"`
	Name          string     `json:"name" db:"name"`
	FoodCatalogID *uuid.UUID `json:"food_catalog_id,omitempty" db:"food_catalog_id"`
	Quantity      *float64   `json:"quantity,omitempty" db:"quantity"`
	MealID        *uuid.UUID `json:"meal_id,omitempty" db:"meal_id"`
	Calories      float64    `json:"calories" db:"calories"`
	Carbs         float64    `json:"carbs" db:"carbs"`
	Protein       float64    `json:"protein" db:"protein"`
	TotalFat      float64    `json:"total_fat" db:"total_fat"`
	Fiber         *float64   `json:"fiber,omitempty" db:"fiber"`
	Sugar         *float64   `json:"sugar,omitempty" db:"sugar"`
	Sodium        *float64   `json:"sodium,omitempty" db:"sodium"`
	Cholesterol   *float64   `json:"cholesterol,omitempty" db:"cholesterol"`
	SaturatedFat  *float64   `json:"saturated_fat,omitempty" db:"saturated_fat"`
	TransFat      *float64   `json:"trans_fat,omitempty" db:"trans_fat"`
	CreatedAt     *time.Time `json:"created_at" db:"created_at"`
}

// entry converts the row into the library's frozen record.
func (l dailyFoodLog) entry() nutrition.LogEntry {
	e := nutrition.LogEntry{
		Type:     nutrition.EntryType(l.Type),
		Quantity: l.Quantity,
		Snapshot: nutrition.Nutrients{
			Calories:     l.Calories,
			Carbs:        l.Carbs,
			Protein:      l.Protein,
			TotalFat:     l.TotalFat,
			Fiber:        nutrition.FromPtr(l.Fiber),
			Sugar:        nutrition.FromPtr(l.Sugar),
			Sodium:       nutrition.FromPtr(l.Sodium),
			Cholesterol:  nutrition.FromPtr(l.Cholesterol),
			SaturatedFat: nutrition.FromPtr(l.SaturatedFat),
			TransFat:     nutrition.FromPtr(l.TransFat),
		},
	}
	if l.FoodCatalogID != nil {
		id := l.FoodCatalogID.String()
		e.FoodID = &id
	}
	if l.MealID != nil {
		id := l.MealID.String()
		e.MealID = &id
	}
	return e
}

// dailyLogEntryView is one entry in GET /food-log/daily. Live carries the
// meal's current totals for meal entries whose meal still exists; the
// snapshot columns remain the figures that count toward the day.
type dailyLogEntryView struct {
	dailyFoodLog
	Live          *nutrition.Nutrients `json:"live,omitempty"`
	SourceDeleted bool                 `json:"source_deleted"`
}

// dailySummary is the response shape for GET /food-log/daily.
type dailySummary struct {
	Date       string                            `json:"date"`
	EntryCount int                               `json:"entry_count"`
	Totals     nutrition.Nutrients               `json:"totals"`
	Goals      nutrition.Goals                   `json:"goals"`
	Progress   map[string]nutrition.GoalProgress `json:"progress"`
	Entries    []dailyLogEntryView               `json:"entries"`
}

// monthSummary is the response shape for GET /food-log/month.
type monthSummary struct {
	Month string                  `json:"month"`
	Days  []nutrition.CalendarDay `json:"days"`
	Stats nutrition.MonthlyStats  `json:"stats"`
	Goals nutrition.Goals         `json:"goals"`
}

// nutritionGoalsRow maps to user_nutrition_goals.
type nutritionGoalsRow struct {
	UserID        int        `json:"user_id" db:"user_id"`
	DailyCalories float64    `json:"daily_calories" db:"daily_calories"`
	DailyCarbs    float64    `json:"daily_carbs" db:"daily_carbs"`
	DailyProtein  float64    `json:"daily_protein" db:"daily_protein"`
	DailyFat      float64    `json:"daily_fat" db:"daily_fat"`
	DailyFiber    *float64   `json:"daily_fiber" db:"daily_fiber"`
	DailySugar    *float64   `json:"daily_sugar" db:"daily_sugar"`
	DailySodium   *float64   `json:"daily_sodium" db:"daily_sodium"`
	UpdatedAt     *time.Time `json:"updated_at" db:"updated_at"`
}

func (r nutritionGoalsRow) goals() nutrition.Goals {
	return nutrition.Goals{
		Calories: r.DailyCalories,
		Carbs:    r.DailyCarbs,
		Protein:  r.DailyProtein,
		Fat:      r.DailyFat,
		Fiber:    nutrition.FromPtr(r.DailyFiber),
		Sugar:    nutrition.FromPtr(r.DailySugar),
		Sodium:   nutrition.FromPtr(r.DailySodium),
	}
}

// userProfile maps to user_profiles. Every biometric field is nullable; an
// incomplete profile is valid and simply yields no recommendation.
type userProfile struct {
	UserID        int        `json:"user_id" db:"user_id"`
	DisplayName   *string    `json:"display_name" db:"display_name"`
	Age           *int       `json:"age" db:"age"`
	HeightCM      *float64   `json:"height_cm" db:"height_cm"`
	WeightKG      *float64   `json:"weight_kg" db:"weight_kg"`
	Sex           *string    `json:"sex" db:"sex"`
	ActivityLevel *string    `json:"activity_level" db:"activity_level"`
	Goal          *string    `json:"goal" db:"goal"`
	UpdatedAt     *time.Time `json:"updated_at" db:"updated_at"`

	// Display strings in the user's unit system. Not stored.
	WeightDisplay *string `json:"weight_display,omitempty" db:"-"`
	HeightDisplay *string `json:"height_display,omitempty" db:"-"`
}

// appPreferences maps to user_app_preferences.
type appPreferences struct {
	UserID        int        `json:"user_id" db:"user_id"`
	Theme         string     `json:"theme" db:"theme"`
	Notifications bool       `json:"notifications" db:"notifications"`
	WeeklyReports bool       `json:"weekly_reports" db:"weekly_reports"`
	ReminderTime  *string    `json:"reminder_time" db:"reminder_time"`
	UnitSystem    string     `json:"unit_system" db:"unit_system"`
	UpdatedAt     *time.Time `json:"updated_at" db:"updated_at"`
}

// defaultPreferences is returned before the user has saved any.
func defaultPreferences(userID int) appPreferences {
	return appPreferences{
		UserID:        userID,
		Theme:         "system",
		Notifications: true,
		UnitSystem:    string(nutrition.Metric),
	}
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// createFoodRequest is the request body for POST /api/catalog.
type createFoodRequest struct {
	Name         string   `json:"name" binding:"required"`
	Calories     float64  `json:"calories" binding:"gt=0"`
	Carbs        float64  `json:"carbs" binding:"gte=0"`
	Protein      float64  `json:"protein" binding:"gte=0"`
	TotalFat     float64  `json:"total_fat" binding:"gte=0"`
	Fiber        *float64 `json:"fiber" binding:"omitempty,gte=0"`
	Sugar        *float64 `json:"sugar" binding:"omitempty,gte=0"`
	Sodium       *float64 `json:"sodium" binding:"omitempty,gte=0"`
	Cholesterol  *float64 `json:"cholesterol" binding:"omitempty,gte=0"`
	SaturatedFat *float64 `json:"saturated_fat" binding:"omitempty,gte=0"`
	TransFat     *float64 `json:"trans_fat" binding:"omitempty,gte=0"`
}

// updateFoodRequest is the request body for PUT /api/catalog/:id. Omitted
// fields keep their current values.
type updateFoodRequest struct {
	Name         *string  `json:"name"`
	Calories     *float64 `json:"calories" binding:"omitempty,gt=0"`
	Carbs        *float64 `json:"carbs" binding:"omitempty,gte=0"`
	Protein      *float64 `json:"protein" binding:"omitempty,gte=0"`
	TotalFat     *float64 `json:"total_fat" binding:"omitempty,gte=0"`
	Fiber        *float64 `json:"fiber" binding:"omitempty,gte=0"`
	Sugar        *float64 `json:"sugar" binding:"omitempty,gte=0"`
	Sodium       *float64 `json:"sodium" binding:"omitempty,gte=0"`
	Cholesterol  *float64 `json:"cholesterol" binding:"omitempty,gte=0"`
	SaturatedFat *float64 `json:"saturated_fat" binding:"omitempty,gte=0"`
	TransFat     *float64 `json:"trans_fat" binding:"omitempty,gte=0"`
}

// mealFoodRequest is one line of a meal in create/update requests.
type mealFoodRequest struct {
	FoodCatalogID string  `json:"food_catalog_id" binding:"required,uuid"`
	Quantity      float64 `json:"quantity"`
}

// mealRequest is the request body for POST and PUT /api/meals, and the inline
// meal of a meal-type log entry.
type mealRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	Foods       []mealFoodRequest `json:"foods" binding:"dive"`
}

// createLogEntryRequest is the request body for POST /api/food-log/items.
// Individual entries set food_catalog_id and quantity; meal entries set either
// meal_id or an inline meal to create and log in one step.
type createLogEntryRequest struct {
	Date          string       `json:"date"`
	Type          string       `json:"type" binding:"required"`
	FoodCatalogID *string      `json:"food_catalog_id"`
	Quantity      *float64     `json:"quantity"`
	MealID        *string      `json:"meal_id"`
	Meal          *mealRequest `json:"meal"`
}

// goalsRequest is the request body for PUT /api/settings/goals.
type goalsRequest struct {
	DailyCalories float64  `json:"daily_calories" binding:"gt=0"`
	DailyCarbs    float64  `json:"daily_carbs" binding:"gte=0"`
	DailyProtein  float64  `json:"daily_protein" binding:"gte=0"`
	DailyFat      float64  `json:"daily_fat" binding:"gte=0"`
	DailyFiber    *float64 `json:"daily_fiber" binding:"omitempty,gte=0"`
	DailySugar    *float64 `json:"daily_sugar" binding:"omitempty,gte=0"`
	DailySodium   *float64 `json:"daily_sodium" binding:"omitempty,gte=0"`
}

// patchProfileRequest is the request body for PUT /api/settings/profile.
// Weight and height are read in the unit system named by Units (default
// metric): kg and height_cm, or lb and height_ft/height_in.
type patchProfileRequest struct {
	DisplayName   *string  `json:"display_name"`
	Age           *int     `json:"age" binding:"omitempty,gt=0,lte=130"`
	Units         *string  `json:"units"`
	Weight        *float64 `json:"weight" binding:"omitempty,gt=0"`
	HeightCM      *float64 `json:"height_cm" binding:"omitempty,gt=0"`
	HeightFt      *int     `json:"height_ft" binding:"omitempty,gte=0"`
	HeightIn      *float64 `json:"height_in" binding:"omitempty,gte=0,lt=12"`
	Sex           *string  `json:"sex"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
}

// patchPreferencesRequest is the request body for PUT /api/settings/preferences.
type patchPreferencesRequest struct {
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
	WeeklyReports *bool   `json:"weekly_reports"`
	ReminderTime  *string `json:"reminder_time"`
	UnitSystem    *string `json:"unit_system"`
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
