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
		log.Println("seeding reputation data...")

		reason := "Подтверждённое мошенничество"
		image := "https://via.placeholder.com/80?text=VIP"
		description := "Официальный гарант сделок. Проверен администрацией. Более 1000 успешных сделок."
		badge := "⭐ Премиум гарант"

		return mghelper.InsertEntry(ctx, db,
			&repstore.ScamEntryDao{
				Username: "scammer123",
				Reason:   &reason,
			},
			&repstore.WhitelistEntryDao{
				Username:           "trusteduser",
				ProfileImage:       &image,
				ProfileDescription: &description,
				ProfileBadge:       &badge,
			},
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("removing seeded reputation data...")

		if _, err := db.NewDelete().
			Model((*repstore.ScamEntryDao)(nil)).
			Where("username = ?", "scammer123").
			Exec(ctx); err != nil {
			return err
		}
		_, err := db.NewDelete().
			Model((*repstore.WhitelistEntryDao)(nil)).
			Where("username = ?", "trusteduser").
			Exec(ctx)
		return err
	})
}
