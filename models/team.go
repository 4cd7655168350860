package models

import "github.com/uptrace/bun"

// Team is a competing team. Names are unique.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}
