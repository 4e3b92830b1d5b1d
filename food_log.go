package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lg/nutrilog-api/internal/nutrition"
)

var (
	errInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	errMealQuantity = errors.New("quantity applies only to individual entries")
	errFoodNotFound = errors.New("catalog item not found")
)

/* ─── Request validation ─────────────────────────────────────────────── */

// validate defaults the date to today and checks the entry's shape before any
// row is read. An inline meal counts as the meal reference.
func (r *createLogEntryRequest) validate(today time.Time) error {
	if r.Date == "" {
		r.Date = today.Format(nutrition.DateLayout)
	} else if _, err := time.Parse(nutrition.DateLayout, r.Date); err != nil {
		return errInvalidDate
	}

	mealRef := r.MealID
	if r.Meal != nil {
		if r.MealID != nil {
			return nutrition.ErrEntryReference
		}
		if err := r.Meal.normalize(); err != nil {
			return err
		}
		placeholder := "new"
		mealRef = &placeholder
	}

	typ := nutrition.EntryType(r.Type)
	probe := nutrition.LogEntry{Type: typ, FoodID: r.FoodCatalogID, MealID: mealRef, Quantity: r.Quantity}
	if err := probe.Validate(); err != nil {
		return err
	}
	if typ == nutrition.EntryMeal && r.Quantity != nil {
		return errMealQuantity
	}
	return nil
}

/* ─── Persistence helpers ────────────────────────────────────────────── */

// insertLogEntry writes l with its snapshot columns and returns the stored row.
func insertLogEntry(q querier, ctx context.Context, l dailyFoodLog, snap nutrition.Nutrients) (dailyFoodLog, error) {
	return queryOne[dailyFoodLog](q, ctx,
		`INSERT INTO daily_food_logs (id, user_id, log_date, type, name, food_catalog_id, quantity, meal_id,
			calories, carbs, protein, total_fat, fiber, sugar, sodium, cholesterol, saturated_fat, trans_fat)
		 VALUES (@id, @userID, @date, @type, @name, @foodID, @quantity, @mealID,
			@calories, @carbs, @protein, @totalFat, @fiber, @sugar, @sodium, @cholesterol, @saturatedFat, @transFat)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.New(), "userID": l.UserID, "date": l.LogDate.Format(nutrition.DateLayout),
			"type": l.Type, "name": l.Name,
			"foodID": l.FoodCatalogID, "quantity": l.Quantity, "mealID": l.MealID,
			"calories": snap.Calories, "carbs": snap.Carbs, "protein": snap.Protein, "totalFat": snap.TotalFat,
			"fiber": snap.Fiber.Ptr(), "sugar": snap.Sugar.Ptr(), "sodium": snap.Sodium.Ptr(),
			"cholesterol": snap.Cholesterol.Ptr(), "saturatedFat": snap.SaturatedFat.Ptr(),
			"transFat": snap.TransFat.Ptr(),
		})
}

// loadGoals returns the user's saved goals, or the defaults if none are saved.
func loadGoals(q querier, ctx context.Context, userID int) (nutrition.Goals, error) {
	row, err := queryOne[nutritionGoalsRow](q, ctx,
		"SELECT * FROM user_nutrition_goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nutrition.DefaultGoals(), nil
	}
	if err != nil {
		return nutrition.Goals{}, err
	}
	return row.goals(), nil
}

// goalProgress builds one bar per goal. Optional goals only get a bar when set.
func goalProgress(totals nutrition.Nutrients, goals nutrition.Goals) map[string]nutrition.GoalProgress {
	p := map[string]nutrition.GoalProgress{
		"calories": nutrition.Progress(totals.Calories, goals.Calories),
		"carbs":    nutrition.Progress(totals.Carbs, goals.Carbs),
		"protein":  nutrition.Progress(totals.Protein, goals.Protein),
		"fat":      nutrition.Progress(totals.TotalFat, goals.Fat),
	}
	optional := []struct {
		key     string
		current nutrition.Amount
		target  nutrition.Amount
	}{
		{"fiber", totals.Fiber, goals.Fiber},
		{"sugar", totals.Sugar, goals.Sugar},
		{"sodium", totals.Sodium, goals.Sodium},
	}
	for _, o := range optional {
		if o.target.Valid {
			p[o.key] = nutrition.Progress(o.current.Value, o.target.Value)
		}
	}
	return p
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getDailySummary returns the day's log entries, snapshot totals, goals, and
// progress. GET /api/food-log/daily?date=YYYY-MM-DD (defaults to today).
// Totals always come from snapshots; meal entries also carry the meal's live
// totals under "live" for display.
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", h.today().Format(nutrition.DateLayout))

	// Validate date format before querying; an invalid value silently returns no rows.
	if _, err := time.Parse(nutrition.DateLayout, date); err != nil {
		apiError(c, http.StatusBadRequest, errInvalidDate.Error())
		return
	}

	logs, err := queryMany[dailyFoodLog](h.db, c,
		`SELECT * FROM daily_food_logs
		 WHERE user_id = @userID AND log_date = @date
		 ORDER BY created_at, id`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch log entries")
		return
	}

	goals, err := loadGoals(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	views, err := h.entryViews(c, userID, logs)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to resolve log entries")
		return
	}

	entries := make([]nutrition.LogEntry, len(logs))
	for i, l := range logs {
		entries[i] = l.entry()
	}
	totals := nutrition.DayTotal(entries).Rounded()

	c.JSON(http.StatusOK, dailySummary{
		Date:       date,
		EntryCount: len(logs),
		Totals:     totals,
		Goals:      goals,
		Progress:   goalProgress(totals, goals),
		Entries:    views,
	})
}

// entryViews resolves each entry's source: whether it still exists and, for
// meal entries, the meal's current totals.
func (h *Handler) entryViews(ctx context.Context, userID int, logs []dailyFoodLog) ([]dailyLogEntryView, error) {
	var foodIDs, mealIDs []uuid.UUID
	for _, l := range logs {
		if l.FoodCatalogID != nil {
			foodIDs = append(foodIDs, *l.FoodCatalogID)
		}
		if l.MealID != nil {
			mealIDs = append(mealIDs, *l.MealID)
		}
	}

	type idRow struct {
		ID uuid.UUID `db:"id"`
	}
	existingFoods := map[uuid.UUID]bool{}
	if len(foodIDs) > 0 {
		rows, err := queryMany[idRow](h.db, ctx,
			"SELECT id FROM food_catalog WHERE user_id = @userID AND id = ANY(@ids::uuid[])",
			pgx.NamedArgs{"userID": userID, "ids": uuidStrings(foodIDs)})
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			existingFoods[r.ID] = true
		}
	}
	existingMeals := map[uuid.UUID]bool{}
	if len(mealIDs) > 0 {
		rows, err := queryMany[idRow](h.db, ctx,
			"SELECT id FROM meals WHERE user_id = @userID AND id = ANY(@ids::uuid[])",
			pgx.NamedArgs{"userID": userID, "ids": uuidStrings(mealIDs)})
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			existingMeals[r.ID] = true
		}
	}
	lines, err := loadMealLines(h.db, ctx, userID, mealIDs)
	if err != nil {
		return nil, err
	}

	views := make([]dailyLogEntryView, len(logs))
	for i, l := range logs {
		v := dailyLogEntryView{dailyFoodLog: l}
		switch {
		case l.FoodCatalogID != nil:
			v.SourceDeleted = !existingFoods[*l.FoodCatalogID]
		case l.MealID != nil && existingMeals[*l.MealID]:
			live := liveMeal(lines[*l.MealID])
			if current, ok := nutrition.EntryView(l.entry(), &live); ok {
				rounded := current.Rounded()
				v.Live = &rounded
			}
		case l.MealID != nil:
			v.SourceDeleted = true
		}
		views[i] = v
	}
	return views, nil
}

// createLogEntry logs a catalog item or a meal on a date, freezing its
// nutrients at this moment. POST /api/food-log/items. Defaults date to today.
// A meal entry may carry an inline "meal" instead of meal_id; the meal is then
// created and logged in the same transaction.
func (h *Handler) createLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createLogEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := body.validate(h.today()); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	date, _ := time.Parse(nutrition.DateLayout, body.Date)

	var created dailyFoodLog
	err := h.inTx(c, func(tx pgx.Tx) error {
		var err error
		if nutrition.EntryType(body.Type) == nutrition.EntryIndividual {
			created, err = logFood(tx, c, userID, date, *body.FoodCatalogID, *body.Quantity)
		} else {
			created, err = logMeal(tx, c, userID, date, body)
		}
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, errFoodNotFound):
			apiError(c, http.StatusNotFound, errFoodNotFound.Error())
		case errors.Is(err, errMealNotFound), errors.Is(err, errUnknownFood):
			writeMealError(c, err, "failed to create log entry")
		default:
			apiError(c, http.StatusInternalServerError, "failed to create log entry")
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// logFood snapshots quantity servings of a catalog item.
func logFood(tx pgx.Tx, ctx context.Context, userID int, date time.Time, rawFoodID string, quantity float64) (dailyFoodLog, error) {
	foodID, err := uuid.Parse(rawFoodID)
	if err != nil {
		return dailyFoodLog{}, errFoodNotFound
	}
	item, err := queryOne[foodCatalogItem](tx, ctx,
		"SELECT * FROM food_catalog WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": foodID, "userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return dailyFoodLog{}, errFoodNotFound
	}
	if err != nil {
		return dailyFoodLog{}, err
	}

	return insertLogEntry(tx, ctx, dailyFoodLog{
		UserID:        userID,
		LogDate:       DateOnly{date},
		Type:          string(nutrition.EntryIndividual),
		Name:          item.Name,
		FoodCatalogID: &foodID,
		Quantity:      &quantity,
	}, nutrition.SnapshotIndividual(item.nutrients(), quantity))
}

// logMeal snapshots an existing meal, or creates the inline meal first.
func logMeal(tx pgx.Tx, ctx context.Context, userID int, date time.Time, body createLogEntryRequest) (dailyFoodLog, error) {
	var (
		m     meal
		lines []mealFoodRow
		err   error
	)
	if body.Meal != nil {
		if m, err = insertMeal(tx, ctx, userID, *body.Meal); err != nil {
			return dailyFoodLog{}, err
		}
	} else {
		id, parseErr := uuid.Parse(*body.MealID)
		if parseErr != nil {
			return dailyFoodLog{}, errMealNotFound
		}
		m = meal{ID: id}
	}
	if m, lines, err = loadMeal(tx, ctx, userID, m.ID); err != nil {
		return dailyFoodLog{}, err
	}

	return insertLogEntry(tx, ctx, dailyFoodLog{
		UserID:  userID,
		LogDate: DateOnly{date},
		Type:    string(nutrition.EntryMeal),
		Name:    m.Name,
		MealID:  &m.ID,
	}, nutrition.SnapshotMeal(liveMeal(lines)))
}

// deleteLogEntry removes a log entry. Returns 204 on success.
// DELETE /api/food-log/items/:id.
func (h *Handler) deleteLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "log entry not found")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM daily_food_logs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete log entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "log entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// getMonthSummary returns the Sunday-first 42-day calendar for a month with
// per-day snapshot totals, plus month stats.
// GET /api/food-log/month?month=YYYY-MM (defaults to the current month).
func (h *Handler) getMonthSummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	today := h.today()

	month := nutrition.MonthStart(today)
	if s := c.Query("month"); s != "" {
		t, err := time.Parse("2006-01", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		month = t
	}

	// Lay out an empty grid first to learn the date span the cells cover, so
	// leading and trailing days from adjacent months get their totals too.
	empty := nutrition.CalendarGrid(month, today, nil)
	logs, err := queryMany[dailyFoodLog](h.db, c,
		`SELECT * FROM daily_food_logs
		 WHERE user_id = @userID AND log_date >= @start AND log_date <= @end`,
		pgx.NamedArgs{"userID": userID, "start": empty[0].Date, "end": empty[len(empty)-1].Date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch month data")
		return
	}

	goals, err := loadGoals(h.db, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	c.JSON(http.StatusOK, buildMonthSummary(month, today, logs, goals))
}

// buildMonthSummary groups logs into the calendar grid and rolls up stats.
func buildMonthSummary(month, today time.Time, logs []dailyFoodLog, goals nutrition.Goals) monthSummary {
	dated := make([]nutrition.DatedEntry, len(logs))
	for i, l := range logs {
		dated[i] = nutrition.DatedEntry{Date: l.LogDate.Format(nutrition.DateLayout), Entry: l.entry()}
	}
	days := nutrition.GroupByDay(dated)

	grid := nutrition.CalendarGrid(month, today, days)
	stats := nutrition.MonthStats(grid)
	stats.Totals = stats.Totals.Rounded()
	stats.Averages = stats.Averages.Rounded()

	// Stats above sum full-precision days; only the cells shown are rounded.
	for i := range grid {
		grid[i].Totals = grid[i].Totals.Rounded()
	}

	return monthSummary{
		Month: month.Format("2006-01"),
		Days:  grid,
		Stats: stats,
		Goals: goals,
	}
}

// getEarliestLogDate returns the earliest date the user has a log entry.
// GET /api/food-log/earliest-date. Used by the frontend to bound calendar paging.
// Returns { "date": "YYYY-MM-DD" } or { "date": null } if no entries exist.
func (h *Handler) getEarliestLogDate(c *gin.Context) {
	userID := c.GetInt("user_id")

	// SELECT MIN returns a nullable date; use *string to handle the NULL case.
	var date *string
	err := h.db.QueryRow(c,
		`SELECT TO_CHAR(MIN(log_date), 'YYYY-MM-DD') AS date
		 FROM daily_food_logs WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID}).Scan(&date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch earliest date")
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date})
}
