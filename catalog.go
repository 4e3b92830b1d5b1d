package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// catalogSortColumns whitelists the ?sort= values for listCatalogItems. The
// value is interpolated into ORDER BY, so it must never come from the request.
var catalogSortColumns = map[string]string{
	"name":     "lower(name)",
	"calories": "calories",
	"protein":  "protein",
	"carbs":    "carbs",
}

// catalogOrderBy builds the ORDER BY clause from the sort/order query params.
// Unknown values fall back to name ascending; ties break on id so paging is stable.
func catalogOrderBy(sort, order string) string {
	col, ok := catalogSortColumns[sort]
	if !ok {
		col = catalogSortColumns["name"]
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

// listCatalogItems returns the user's food catalog, optionally filtered by a
// case-insensitive name search.
// GET /api/catalog?q=&sort=name|calories|protein|carbs&order=asc|desc.
func (h *Handler) listCatalogItems(c *gin.Context) {
	userID := c.GetInt("user_id")
	q := strings.TrimSpace(c.Query("q"))

	items, err := queryMany[foodCatalogItem](h.db, c,
		`SELECT * FROM food_catalog
		 WHERE user_id = @userID AND (@q = '' OR name ILIKE '%' || @q || '%')
		 ORDER BY `+catalogOrderBy(c.Query("sort"), c.Query("order")),
		pgx.NamedArgs{"userID": userID, "q": q})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch catalog")
		return
	}
	// Ensure items is an empty array (not null) in JSON
	if items == nil {
		items = []foodCatalogItem{}
	}

	c.JSON(http.StatusOK, items)
}

// getCatalogItem returns a single catalog item.
// GET /api/catalog/:id.
func (h *Handler) getCatalogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "catalog item not found")
		return
	}

	item, err := queryOne[foodCatalogItem](h.db, c,
		"SELECT * FROM food_catalog WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "catalog item not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch catalog item")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// createCatalogItem adds a food to the user's catalog.
// POST /api/catalog. Calories must be positive; every other nutrient non-negative.
func (h *Handler) createCatalogItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}

	item, err := queryOne[foodCatalogItem](h.db, c,
		`INSERT INTO food_catalog (id, user_id, name, calories, carbs, protein, total_fat,
			fiber, sugar, sodium, cholesterol, saturated_fat, trans_fat)
		 VALUES (@id, @userID, @name, @calories, @carbs, @protein, @totalFat,
			@fiber, @sugar, @sodium, @cholesterol, @saturatedFat, @transFat)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.New(), "userID": userID, "name": body.Name,
			"calories": body.Calories, "carbs": body.Carbs,
			"protein": body.Protein, "totalFat": body.TotalFat,
			"fiber": body.Fiber, "sugar": body.Sugar, "sodium": body.Sodium,
			"cholesterol": body.Cholesterol, "saturatedFat": body.SaturatedFat,
			"transFat": body.TransFat,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create catalog item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// updateCatalogItem edits a catalog item in place.
// PUT /api/catalog/:id. Uses COALESCE so omitted fields keep their current value.
// Meals see the new values on their next read; existing log entries do not.
func (h *Handler) updateCatalogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "catalog item not found")
		return
	}

	var body updateFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			apiError(c, http.StatusBadRequest, "name must not be empty")
			return
		}
		body.Name = &trimmed
	}

	item, err := queryOne[foodCatalogItem](h.db, c,
		`UPDATE food_catalog SET
			name          = COALESCE(@name, name),
			calories      = COALESCE(@calories, calories),
			carbs         = COALESCE(@carbs, carbs),
			protein       = COALESCE(@protein, protein),
			total_fat     = COALESCE(@totalFat, total_fat),
			fiber         = COALESCE(@fiber, fiber),
			sugar         = COALESCE(@sugar, sugar),
			sodium        = COALESCE(@sodium, sodium),
			cholesterol   = COALESCE(@cholesterol, cholesterol),
			saturated_fat = COALESCE(@saturatedFat, saturated_fat),
			trans_fat     = COALESCE(@transFat, trans_fat),
			updated_at    = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID, "name": body.Name,
			"calories": body.Calories, "carbs": body.Carbs,
			"protein": body.Protein, "totalFat": body.TotalFat,
			"fiber": body.Fiber, "sugar": body.Sugar, "sodium": body.Sodium,
			"cholesterol": body.Cholesterol, "saturatedFat": body.SaturatedFat,
			"transFat": body.TransFat,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "catalog item not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update catalog item")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteCatalogItem removes a catalog item. Returns 204 on success.
// DELETE /api/catalog/:id. Meal lines that reference it become dangling and
// contribute zero; log entries keep their snapshot.
func (h *Handler) deleteCatalogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "catalog item not found")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM food_catalog WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete catalog item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "catalog item not found")
		return
	}

	c.Status(http.StatusNoContent)
}
