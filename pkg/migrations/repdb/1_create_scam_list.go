package repdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/cherrygram/reputation-api/pkg/pgutil/migrations"
	"github.com/cherrygram/reputation-api/pkg/repstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating scam_list table...")
		return mghelper.CreateSchema(ctx, db, &repstore.ScamEntryDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping scam_list table...")
		return mghelper.DropTables(ctx, db, &repstore.ScamEntryDao{})
	})
}
