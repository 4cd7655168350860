package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/scoreapi/store"
)

type testRequest struct {
	Name string `json:"name"`
}

// Tests returns all tests.
func (h *Handler) Tests(c echo.Context) error {
	tests, err := h.store.Tests(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tests)
}

// CreateTest inserts a new test and broadcasts the refreshed aggregate view.
func (h *Handler) CreateTest(c echo.Context) error {
	var req testRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx := c.Request().Context()
	if err := h.store.CreateTest(ctx, req.Name); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return c.JSON(http.StatusOK, failure("Test already exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}

// UpdateTest renames a test by id.
func (h *Handler) UpdateTest(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req testRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx := c.Request().Context()
	if err := h.store.UpdateTest(ctx, id, req.Name); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusOK, failure("Test not found"))
		case errors.Is(err, store.ErrConflict):
			return c.JSON(http.StatusOK, failure("Test already exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}

// DeleteTest removes a test by id.
func (h *Handler) DeleteTest(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	if err := h.store.DeleteTest(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusOK, failure("Test not found"))
		case errors.Is(err, store.ErrReferential):
			return c.JSON(http.StatusOK, failure("Test has existing scores"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}
