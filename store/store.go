// Package store is the gateway to the relational store: CRUD over teams,
// tests, team scores and the legacy results table, plus the aggregated
// per-team totals view.
package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/padraicbc/scoreapi/models"
)

// TeamTotal is one row of the aggregate view: a team and the sum of its
// scores across all tests. Recomputed on demand, never cached.
type TeamTotal struct {
	TeamID int    `bun:"team_id" json:"team_id"`
	Score  int    `bun:"score" json:"score"`
	Name   string `bun:"name" json:"name"`
}

// Store executes queries against the scoreboard database.
type Store struct {
	db *bun.DB
}

// New wraps a bun database handle.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// ---------------------------------------------------------------------------
// Teams

func (s *Store) Teams(ctx context.Context) ([]models.Team, error) {
	teams := []models.Team{}
	err := s.db.NewSelect().Model(&teams).OrderExpr("t.id ASC").Scan(ctx)
	return teams, err
}

func (s *Store) CreateTeam(ctx context.Context, name string) error {
	team := &models.Team{Name: name}
	_, err := s.db.NewInsert().Model(team).Exec(ctx)
	return classify(err)
}

func (s *Store) UpdateTeam(ctx context.Context, id int, name string) error {
	res, err := s.db.NewUpdate().Model((*models.Team)(nil)).
		Set("name = ?", name).
		Where("id = ?", id).
		Exec(ctx)
	return affected(res, classify(err))
}

func (s *Store) DeleteTeam(ctx context.Context, id int) error {
	res, err := s.db.NewDelete().Model((*models.Team)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return affected(res, classify(err))
}

// ---------------------------------------------------------------------------
// Tests

func (s *Store) Tests(ctx context.Context) ([]models.Test, error) {
	tests := []models.Test{}
	err := s.db.NewSelect().Model(&tests).OrderExpr("te.id ASC").Scan(ctx)
	return tests, err
}

func (s *Store) CreateTest(ctx context.Context, name string) error {
	test := &models.Test{Name: name}
	_, err := s.db.NewInsert().Model(test).Exec(ctx)
	return classify(err)
}

func (s *Store) UpdateTest(ctx context.Context, id int, name string) error {
	res, err := s.db.NewUpdate().Model((*models.Test)(nil)).
		Set("name = ?", name).
		Where("id = ?", id).
		Exec(ctx)
	return affected(res, classify(err))
}

func (s *Store) DeleteTest(ctx context.Context, id int) error {
	res, err := s.db.NewDelete().Model((*models.Test)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return affected(res, classify(err))
}

// ---------------------------------------------------------------------------
// Team scores

func (s *Store) TeamScores(ctx context.Context) ([]models.TeamScore, error) {
	scores := []models.TeamScore{}
	err := s.db.NewSelect().Model(&scores).OrderExpr("s.id ASC").Scan(ctx)
	return scores, err
}

func (s *Store) CreateTeamScore(ctx context.Context, teamID, testID, score int) error {
	ts := &models.TeamScore{TeamID: teamID, TestID: testID, Score: score}
	_, err := s.db.NewInsert().Model(ts).Exec(ctx)
	return classify(err)
}

func (s *Store) DeleteTeamScore(ctx context.Context, id int) error {
	res, err := s.db.NewDelete().Model((*models.TeamScore)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return affected(res, classify(err))
}

// AggregateByTeam sums scores per team across all tests. Teams with no score
// rows are absent from the view. Ordered by team id so output is stable.
func (s *Store) AggregateByTeam(ctx context.Context) ([]TeamTotal, error) {
	totals := []TeamTotal{}
	err := s.db.NewSelect().
		TableExpr("team_scores AS s").
		ColumnExpr("s.team_id, SUM(s.score) AS score, t.name").
		Join("INNER JOIN teams t ON t.id = s.team_id").
		GroupExpr("s.team_id, t.name").
		OrderExpr("s.team_id ASC").
		Scan(ctx, &totals)
	return totals, err
}

// ---------------------------------------------------------------------------
// Legacy results

func (s *Store) Results(ctx context.Context) ([]models.Result, error) {
	results := []models.Result{}
	err := s.db.NewSelect().Model(&results).OrderExpr("r.id ASC").Scan(ctx)
	return results, err
}

func (s *Store) CreateResult(ctx context.Context, team string, score int) error {
	result := &models.Result{Team: team, Score: score}
	_, err := s.db.NewInsert().Model(result).Exec(ctx)
	return classify(err)
}

// UpdateResult sets the score on the legacy row matching the team name.
func (s *Store) UpdateResult(ctx context.Context, team string, score int) error {
	res, err := s.db.NewUpdate().Model((*models.Result)(nil)).
		Set("score = ?", score).
		Where("team = ?", team).
		Exec(ctx)
	return affected(res, classify(err))
}

// DeleteResult removes the legacy row matching the team name.
func (s *Store) DeleteResult(ctx context.Context, team string) error {
	res, err := s.db.NewDelete().Model((*models.Result)(nil)).
		Where("team = ?", team).
		Exec(ctx)
	return affected(res, classify(err))
}

// affected collapses a write result into ErrNotFound when no rows matched.
func affected(res interface{ RowsAffected() (int64, error) }, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
