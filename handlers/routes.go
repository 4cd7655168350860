package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/scoreapi/middleware"
)

// Register wires all routes onto e. Reads and the websocket are public;
// mutations sit behind the shared-secret middleware.
func Register(e *echo.Echo, h *Handler, secret string) {
	auth := mw.Token(secret)

	// Public reads
	e.GET("/results", h.Results)
	e.GET("/teams", h.Teams)
	e.GET("/tests", h.Tests)
	e.GET("/team_scores", h.TeamScores)
	e.GET("/team_scores_by_team", h.TeamScoresByTeam)

	// Live updates
	e.GET("/ws/results", h.WSResults)

	// Legacy results
	e.POST("/results", h.CreateResult, auth)
	e.PUT("/results", h.UpdateResult, auth)
	e.DELETE("/results", h.DeleteResult, auth)

	// Teams
	e.POST("/teams", h.CreateTeam, auth)
	e.PUT("/teams/:id", h.UpdateTeam, auth)
	e.DELETE("/teams/:id", h.DeleteTeam, auth)

	// Tests
	e.POST("/tests", h.CreateTest, auth)
	e.PUT("/tests/:id", h.UpdateTest, auth)
	e.DELETE("/tests/:id", h.DeleteTest, auth)

	// Team scores
	e.POST("/team_scores", h.CreateTeamScore, auth)
	e.DELETE("/team_scores/:id", h.DeleteTeamScore, auth)
}
