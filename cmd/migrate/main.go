// cmd/migrate/main.go
// Imports the legacy football_results table from a MySQL scoreboard database
// into the local PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/scoreboard?parseTime=true" \
//	DB_PASS="pgpass" TOKEN="..." \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/scoreapi/config"
	bundb "github.com/padraicbc/scoreapi/db"
	"github.com/padraicbc/scoreapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/scoreboard?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	n, err := migrateResults(ctx, myDB, pgDB)
	if err != nil {
		log.Fatalf("migrate football_results: %v (migrated %d)", err, n)
	}
	log.Printf("migrated %d football_results rows", n)

	resetSequence(ctx, pgDB)
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert(ctx context.Context, pgDB *bun.DB, rows []models.Result) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func migrateResults(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, team, score FROM football_results")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Result
	total := 0
	for rows.Next() {
		var r models.Result
		if err := rows.Scan(&r.ID, &r.Team, &r.Score); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func resetSequence(ctx context.Context, pgDB *bun.DB) {
	q := "SELECT setval('football_results_id_seq', COALESCE((SELECT MAX(id) FROM football_results), 1))"
	if _, err := pgDB.ExecContext(ctx, q); err != nil {
		log.Printf("reset seq football_results_id_seq: %v", err)
		return
	}
	log.Println("sequence reset")
}
