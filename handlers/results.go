package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/scoreapi/store"
)

type resultRequest struct {
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// Results returns all legacy flat scoreboard rows.
func (h *Handler) Results(c echo.Context) error {
	results, err := h.store.Results(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}

// CreateResult inserts a legacy row and broadcasts the refreshed results list.
func (h *Handler) CreateResult(c echo.Context) error {
	var req resultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Team = strings.TrimSpace(req.Team)
	if req.Team == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "team is required")
	}

	ctx := c.Request().Context()
	if err := h.store.CreateResult(ctx, req.Team, req.Score); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastResults(ctx)
	return c.JSON(http.StatusOK, success())
}

// UpdateResult sets the score on the legacy row matching the team name.
func (h *Handler) UpdateResult(c echo.Context) error {
	var req resultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Team = strings.TrimSpace(req.Team)
	if req.Team == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "team is required")
	}

	ctx := c.Request().Context()
	if err := h.store.UpdateResult(ctx, req.Team, req.Score); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, failure("Team not found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastResults(ctx)
	return c.JSON(http.StatusOK, success())
}

// DeleteResult removes the legacy row matching the team query param.
func (h *Handler) DeleteResult(c echo.Context) error {
	team := c.QueryParam("team")
	if team == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "team param not set")
	}

	ctx := c.Request().Context()
	if err := h.store.DeleteResult(ctx, team); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, failure("Team not found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastResults(ctx)
	return c.JSON(http.StatusOK, success())
}
