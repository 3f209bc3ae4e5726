// internal/handler/expense.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenses *service.ExpenseService
}

func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// GetAll godoc
// @Summary List all expenses
// @Produce json
// @Success 200 {array} domain.Expense
// @Router /api/expenses [get]
func (h *ExpenseHandler) GetAll(c *gin.Context) {
	expenses, err := h.expenses.All(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list expenses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

// GetByID godoc
// @Summary Get an expense by id
// @Success 200 {object} domain.Expense
// @Failure 404 {object} map[string]string
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	expense, err := h.expenses.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to get expense", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if expense == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Create godoc
// @Summary Create a new expense
// @Accept json
// @Produce json
// @Success 200 {object} domain.Expense
// @Failure 400 {object} map[string]string
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var expense domain.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	expense.ID = 0

	if err := h.expenses.Create(c.Request.Context(), &expense); err != nil {
		h.writeError(c, err, "create expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// CreateBulk godoc
// @Summary Create multiple expenses
// @Description Creates expenses sequentially; stops at the first validation failure
// @Accept json
// @Produce json
// @Success 200 {array} domain.Expense
// @Failure 400 {object} map[string]string
// @Router /api/expenses/bulk [post]
func (h *ExpenseHandler) CreateBulk(c *gin.Context) {
	var expenses []domain.Expense
	if err := c.ShouldBindJSON(&expenses); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	created := make([]domain.Expense, 0, len(expenses))
	for i := range expenses {
		expenses[i].ID = 0
		if err := h.expenses.Create(c.Request.Context(), &expenses[i]); err != nil {
			h.writeError(c, err, "bulk create expense")
			return
		}
		created = append(created, expenses[i])
	}
	c.JSON(http.StatusOK, created)
}

// Update godoc
// @Summary Replace an expense's fields
// @Accept json
// @Produce json
// @Success 200 {object} domain.Expense
// @Failure 404 {object} map[string]string
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var expense domain.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	updated, err := h.expenses.Update(c.Request.Context(), id, expense)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		h.writeError(c, err, "update expense")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete an expense
// @Success 200
// @Failure 404 {object} map[string]string
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.expenses.Delete(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to delete expense", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	c.Status(http.StatusOK)
}

// TotalAll godoc
// @Summary Total amount over all expenses
// @Success 200 {number} float64
// @Router /api/expenses/total [get]
func (h *ExpenseHandler) TotalAll(c *gin.Context) {
	total, err := h.expenses.TotalAll(c.Request.Context())
	if err != nil {
		slog.Error("Failed to compute total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, total)
}

// TotalByCategory godoc
// @Summary Total amount for one category (exact match)
// @Success 200 {number} float64
// @Router /api/expenses/total/{category} [get]
func (h *ExpenseHandler) TotalByCategory(c *gin.Context) {
	category := c.Param("category")
	total, err := h.expenses.TotalByCategory(c.Request.Context(), category)
	if err != nil {
		slog.Error("Failed to compute category total", "error", err, "category", category)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, total)
}

func (h *ExpenseHandler) writeError(c *gin.Context, err error, op string) {
	if service.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slog.Error("Expense operation failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}
