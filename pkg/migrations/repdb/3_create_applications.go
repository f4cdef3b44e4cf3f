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
		log.Println("creating applications table...")
		if err := mghelper.CreateSchema(ctx, db, &repstore.ApplicationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &repstore.ApplicationDao{}, "username", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping applications table...")
		return mghelper.DropTables(ctx, db, &repstore.ApplicationDao{})
	})
}
