package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/scoreapi/store"
)

// TeamScores returns all raw score rows.
func (h *Handler) TeamScores(c echo.Context) error {
	scores, err := h.store.TeamScores(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, scores)
}

// TeamScoresByTeam returns the aggregate view: summed score per team.
func (h *Handler) TeamScoresByTeam(c echo.Context) error {
	totals, err := h.store.AggregateByTeam(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, totals)
}

// CreateTeamScore inserts a score row from form fields team_id, test_id and
// score, then broadcasts the refreshed aggregate view.
func (h *Handler) CreateTeamScore(c echo.Context) error {
	teamID, err := strconv.Atoi(c.FormValue("team_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "team_id must be an integer")
	}
	testID, err := strconv.Atoi(c.FormValue("test_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "test_id must be an integer")
	}
	score, err := strconv.Atoi(c.FormValue("score"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "score must be an integer")
	}

	ctx := c.Request().Context()
	if err := h.store.CreateTeamScore(ctx, teamID, testID, score); err != nil {
		if errors.Is(err, store.ErrReferential) {
			return c.JSON(http.StatusOK, failure("Team or test not found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}

// DeleteTeamScore removes a score row by id.
func (h *Handler) DeleteTeamScore(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	if err := h.store.DeleteTeamScore(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, failure("Team score not found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcastAggregate(ctx)
	return c.JSON(http.StatusOK, success())
}
