package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkhomytsya/table-reservation/internal/repository"
)

// TableHandler exposes the read-only table catalog.
type TableHandler struct {
	Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo) *TableHandler {
	if tables == nil {
		panic("nil table repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables}
}

type tableItem struct {
	ID       uint64 `json:"id"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

// List handles GET /v1/tables.  It returns the catalog ordered by
// capacity then id, the same order the allocator walks it in.  The
// response cache middleware sits in front of this endpoint.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}
	items := make([]tableItem, 0, len(tables))
	for _, t := range tables {
		items = append(items, tableItem{ID: t.ID, Label: t.Label, Capacity: t.Capacity})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load table"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": tableItem{ID: t.ID, Label: t.Label, Capacity: t.Capacity}})
}
