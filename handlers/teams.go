package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/scoreapi/store"
)

type teamRequest struct {
	Name string `json:"name"`
}

// Teams returns all teams.
func (h *Handler) Teams(c echo.Context) error {
	teams, err := h.store.Teams(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, teams)
}

// CreateTeam inserts a new team and broadcasts the refreshed aggregate view.
func (h *Handler) CreateTeam(c echo.Context) error {
	var req teamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx := c.Request().Context()
	if err := h.store.CreateTeam(ctx, req.Name); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return c.JSON(http.StatusOK, failure("Team already exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}

// UpdateTeam renames a team by id.
func (h *Handler) UpdateTeam(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req teamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx := c.Request().Context()
	if err := h.store.UpdateTeam(ctx, id, req.Name); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusOK, failure("Team not found"))
		case errors.Is(err, store.ErrConflict):
			return c.JSON(http.StatusOK, failure("Team already exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}

// DeleteTeam removes a team by id.
func (h *Handler) DeleteTeam(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	if err := h.store.DeleteTeam(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusOK, failure("Team not found"))
		case errors.Is(err, store.ErrReferential):
			return c.JSON(http.StatusOK, failure("Team has existing scores"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}
