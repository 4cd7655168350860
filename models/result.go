package models

import "github.com/uptrace/bun"

// Result is a legacy flat scoreboard row keyed by team name, predating the
// team/test split. The /results endpoints still serve it.
type Result struct {
	bun.BaseModel `bun:"table:football_results,alias:r"`

	ID    int    `bun:"id,pk,autoincrement" json:"id"`
	Team  string `bun:"team,notnull" json:"team"`
	Score int    `bun:"score,notnull" json:"score"`
}
