package models

import "github.com/uptrace/bun"

// Test is a scored event (quiz, round, match). Names are unique.
type Test struct {
	bun.BaseModel `bun:"table:tests,alias:te"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}
