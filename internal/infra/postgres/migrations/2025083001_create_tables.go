package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_tables.sql
var createTablesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS accessibility_guides;
				DROP TABLE IF EXISTS announcements;
				DROP TABLE IF EXISTS evaluation_criteria;
				DROP TABLE IF EXISTS evaluations;
				DROP TABLE IF EXISTS evaluation_sessions;
				DROP TABLE IF EXISTS survey_data;
				DROP TABLE IF EXISTS schools_in_progress;
				DROP TABLE IF EXISTS survey_responses;
				DROP TABLE IF EXISTS content_sets`)
			return err
		},
	)
}
