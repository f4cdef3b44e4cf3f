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
		log.Println("creating scam_reports table...")
		if err := mghelper.CreateSchema(ctx, db, &repstore.ScamReportDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &repstore.ScamReportDao{}, "scammer_username", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping scam_reports table...")
		return mghelper.DropTables(ctx, db, &repstore.ScamReportDao{})
	})
}
