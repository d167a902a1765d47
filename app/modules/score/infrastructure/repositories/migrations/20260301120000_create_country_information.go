package scoremigrations

import (
	"context"
	"fmt"

	scoredb "github.com/Black-And-White-Club/poptrivia/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating country_information table...")

		if _, err := db.NewCreateTable().Model((*scoredb.ScoreRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create country_information table: %w", err)
		}

		fmt.Println("country_information table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping country_information table...")

		if _, err := db.NewDropTable().Model((*scoredb.ScoreRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop country_information table: %w", err)
		}

		fmt.Println("country_information table dropped successfully!")
		return nil
	})
}
