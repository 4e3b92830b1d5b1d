package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lg/nutrilog-api/internal/nutrition"
)

var (
	errMealNotFound = errors.New("meal not found")
	errUnknownFood  = errors.New("meal references a food that is not in your catalog")
)

// normalize trims the name and checks every line before anything is written.
func (r *mealRequest) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	for i, f := range r.Foods {
		if err := nutrition.ValidQuantity(f.Quantity); err != nil {
			return fmt.Errorf("foods[%d]: %w", i, err)
		}
	}
	return nil
}

/* ─── Meal loading ───────────────────────────────────────────────────── */

// loadMealLines returns each meal's lines in position order, joined to the
// current catalog. Lines whose catalog item was deleted come back with NULL
// catalog columns.
func loadMealLines(q querier, ctx context.Context, userID int, mealIDs []uuid.UUID) (map[uuid.UUID][]mealFoodRow, error) {
	byMeal := make(map[uuid.UUID][]mealFoodRow, len(mealIDs))
	if len(mealIDs) == 0 {
		return byMeal, nil
	}
	rows, err := queryMany[mealFoodRow](q, ctx,
		`SELECT mf.id, mf.meal_id, mf.food_catalog_id, mf.quantity, mf.position,
			fc.name AS food_name, fc.calories, fc.carbs, fc.protein, fc.total_fat,
			fc.fiber, fc.sugar, fc.sodium, fc.cholesterol, fc.saturated_fat, fc.trans_fat
		 FROM meal_foods mf
		 JOIN meals m ON m.id = mf.meal_id
		 LEFT JOIN food_catalog fc ON fc.id = mf.food_catalog_id AND fc.user_id = m.user_id
		 WHERE m.user_id = @userID AND mf.meal_id = ANY(@mealIDs::uuid[])
		 ORDER BY mf.meal_id, mf.position`,
		pgx.NamedArgs{"userID": userID, "mealIDs": uuidStrings(mealIDs)})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		byMeal[r.MealID] = append(byMeal[r.MealID], r)
	}
	return byMeal, nil
}

// liveMeal converts joined rows into the library's live meal.
func liveMeal(rows []mealFoodRow) nutrition.LiveMeal {
	lines := make([]nutrition.MealLine, len(rows))
	for i, r := range rows {
		lines[i] = nutrition.MealLine{
			FoodID:   r.FoodCatalogID.String(),
			Food:     r.food(),
			Quantity: r.Quantity,
		}
	}
	return nutrition.LiveMeal{Lines: lines}
}

// buildMealResponse attaches lines and rounded live totals to a meal.
func buildMealResponse(m meal, rows []mealFoodRow) mealResponse {
	foods := make([]mealFoodResponse, len(rows))
	for i, r := range rows {
		foods[i] = mealFoodResponse{
			ID:            r.ID,
			FoodCatalogID: r.FoodCatalogID,
			Quantity:      r.Quantity,
			Food:          r.food(),
			Missing:       r.food() == nil,
		}
		if r.FoodName != nil {
			foods[i].Name = *r.FoodName
		}
	}
	return mealResponse{
		meal:   m,
		Foods:  foods,
		Totals: liveMeal(rows).Totals().Rounded(),
	}
}

// loadMeal fetches one meal with its lines. Returns errMealNotFound when the
// meal doesn't exist or belongs to someone else.
func loadMeal(q querier, ctx context.Context, userID int, id uuid.UUID) (meal, []mealFoodRow, error) {
	m, err := queryOne[meal](q, ctx,
		"SELECT * FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meal{}, nil, errMealNotFound
		}
		return meal{}, nil, err
	}
	lines, err := loadMealLines(q, ctx, userID, []uuid.UUID{id})
	if err != nil {
		return meal{}, nil, err
	}
	return m, lines[id], nil
}

/* ─── Meal writes ────────────────────────────────────────────────────── */

// checkFoodsOwned verifies every referenced catalog item exists for the user.
func checkFoodsOwned(tx pgx.Tx, ctx context.Context, userID int, foods []mealFoodRequest) error {
	if len(foods) == 0 {
		return nil
	}
	distinct := map[string]bool{}
	for _, f := range foods {
		distinct[strings.ToLower(f.FoodCatalogID)] = true
	}
	ids := make([]string, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}

	var found int
	err := tx.QueryRow(ctx,
		"SELECT count(*) FROM food_catalog WHERE user_id = @userID AND id = ANY(@ids::uuid[])",
		pgx.NamedArgs{"userID": userID, "ids": ids}).Scan(&found)
	if err != nil {
		return err
	}
	if found != len(ids) {
		return errUnknownFood
	}
	return nil
}

// insertMealFoods writes the lines of a meal in request order.
func insertMealFoods(tx pgx.Tx, ctx context.Context, mealID uuid.UUID, foods []mealFoodRequest) error {
	for i, f := range foods {
		_, err := tx.Exec(ctx,
			`INSERT INTO meal_foods (id, meal_id, food_catalog_id, quantity, position)
			 VALUES (@id, @mealID, @foodID, @quantity, @position)`,
			pgx.NamedArgs{
				"id": uuid.New(), "mealID": mealID, "foodID": f.FoodCatalogID,
				"quantity": f.Quantity, "position": i,
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// insertMeal creates a meal and its lines inside tx.
func insertMeal(tx pgx.Tx, ctx context.Context, userID int, body mealRequest) (meal, error) {
	if err := checkFoodsOwned(tx, ctx, userID, body.Foods); err != nil {
		return meal{}, err
	}
	m, err := queryOne[meal](tx, ctx,
		`INSERT INTO meals (id, user_id, name, description)
		 VALUES (@id, @userID, @name, @description)
		 RETURNING *`,
		pgx.NamedArgs{"id": uuid.New(), "userID": userID, "name": body.Name, "description": body.Description})
	if err != nil {
		return meal{}, err
	}
	if err := insertMealFoods(tx, ctx, m.ID, body.Foods); err != nil {
		return meal{}, err
	}
	return m, nil
}

// writeMealError maps meal write errors onto status codes.
func writeMealError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, errMealNotFound):
		apiError(c, http.StatusNotFound, "meal not found")
	case errors.Is(err, errUnknownFood):
		apiError(c, http.StatusBadRequest, errUnknownFood.Error())
	default:
		apiError(c, http.StatusInternalServerError, fallback)
	}
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// listMeals returns all of the user's meals, newest first, with live totals.
// GET /api/meals.
func (h *Handler) listMeals(c *gin.Context) {
	userID := c.GetInt("user_id")

	meals, err := queryMany[meal](h.db, c,
		"SELECT * FROM meals WHERE user_id = @userID ORDER BY created_at DESC, id",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	ids := make([]uuid.UUID, len(meals))
	for i, m := range meals {
		ids[i] = m.ID
	}
	lines, err := loadMealLines(h.db, c, userID, ids)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal foods")
		return
	}

	result := make([]mealResponse, len(meals))
	for i, m := range meals {
		result[i] = buildMealResponse(m, lines[m.ID])
	}

	c.JSON(http.StatusOK, result)
}

// getMeal returns a single meal with its lines and live totals.
// GET /api/meals/:id.
func (h *Handler) getMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	m, lines, err := loadMeal(h.db, c, userID, id)
	if err != nil {
		writeMealError(c, err, "failed to fetch meal")
		return
	}

	c.JSON(http.StatusOK, buildMealResponse(m, lines))
}

// createMeal creates a named meal from catalog items.
// POST /api/meals. The meal and all of its lines are written in one transaction.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := body.normalize(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		created meal
		lines   map[uuid.UUID][]mealFoodRow
	)
	err := h.inTx(c, func(tx pgx.Tx) error {
		var err error
		if created, err = insertMeal(tx, c, userID, body); err != nil {
			return err
		}
		lines, err = loadMealLines(tx, c, userID, []uuid.UUID{created.ID})
		return err
	})
	if err != nil {
		writeMealError(c, err, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, buildMealResponse(created, lines[created.ID]))
}

// updateMeal replaces a meal's name, description, and lines.
// PUT /api/meals/:id. Log entries that reference the meal keep their snapshot.
func (h *Handler) updateMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := body.normalize(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		updated meal
		lines   []mealFoodRow
	)
	err := h.inTx(c, func(tx pgx.Tx) error {
		var err error
		updated, err = queryOne[meal](tx, c,
			`UPDATE meals SET name = @name, description = @description
			 WHERE id = @id AND user_id = @userID
			 RETURNING *`,
			pgx.NamedArgs{"id": id, "userID": userID, "name": body.Name, "description": body.Description})
		if errors.Is(err, pgx.ErrNoRows) {
			return errMealNotFound
		}
		if err != nil {
			return err
		}
		if err := checkFoodsOwned(tx, c, userID, body.Foods); err != nil {
			return err
		}
		if _, err := tx.Exec(c, "DELETE FROM meal_foods WHERE meal_id = @id", pgx.NamedArgs{"id": id}); err != nil {
			return err
		}
		if err := insertMealFoods(tx, c, id, body.Foods); err != nil {
			return err
		}
		_, lines, err = loadMeal(tx, c, userID, id)
		return err
	})
	if err != nil {
		writeMealError(c, err, "failed to update meal")
		return
	}

	c.JSON(http.StatusOK, buildMealResponse(updated, lines))
}

// deleteMeal removes a meal and its lines. Returns 204 on success.
// DELETE /api/meals/:id. Log entries that reference it keep their snapshot.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
