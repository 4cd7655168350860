package models

import "github.com/uptrace/bun"

// TeamScore is one score entry for a team in a test. A (team, test) pair may
// have any number of rows; totals are summed across them.
type TeamScore struct {
	bun.BaseModel `bun:"table:team_scores,alias:s"`

	ID     int `bun:"id,pk,autoincrement" json:"id"`
	TeamID int `bun:"team_id,notnull" json:"team_id"`
	TestID int `bun:"test_id,notnull" json:"test_id"`
	Score  int `bun:"score,notnull" json:"score"`

	Team *Team `bun:"rel:belongs-to,join:team_id=id" json:"-"`
	Test *Test `bun:"rel:belongs-to,join:test_id=id" json:"-"`
}
