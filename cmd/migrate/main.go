package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"boostpanel/internal/datastore"
	"boostpanel/internal/models"
	"boostpanel/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandSeedPackages(),
			commandImportPosts(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePost(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBoostAccount(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBoostConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBoostedPost(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCredit(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCampaign(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_RULE_WINDOW_DAYS, Value: "7"},
				{Key: services.CONFIG_DEFAULT_DAILY_LIMIT, Value: "25"},
				{Key: services.CONFIG_CRONJOB_TIME_BOOST, Value: "*/5 * * * *"},
				{Key: services.CONFIG_CRONJOB_TIME_METRICS, Value: "*/15 * * * *"},
				{Key: services.CONFIG_CRONJOB_TIME_CAMPAIGN, Value: "*/30 * * * *"},
				{Key: services.CONFIG_CAMPAIGN_SYNC_BATCH, Value: "50"},
				{Key: services.CONFIG_REAL_BOOST_RATE_PER_MIN, Value: "6"},
				{Key: services.CONFIG_TEXT_BOOST_COMPLETED, Value: "✅ Your boost finished. Check the dashboard for details."},
				{Key: services.CONFIG_TEXT_ACCOUNT_BANNED, Value: "⛔️ One of your boost accounts was banned and pulled from rotation."},
			}

			for _, config := range configs {
				_, err = db.NewInsert().Model(&config).Exec(ctx)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandSeedPackages() *cli.Command {
	return &cli.Command{
		Name:        "seed-packages",
		Description: "Insert the default credit packages, skipped when any exist",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.SeedCreditPackages(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Packages seeded")

			return nil
		},
	}
}

// commandImportPosts loads posts from a CSV export of the content store:
// id, user_id, url, caption.
func commandImportPosts() *cli.Command {
	return &cli.Command{
		Name: "import-posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Value: "./posts.csv",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			inputPath := c.String("input")
			file, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer file.Close()

			r := csv.NewReader(file)

			imported := 0
			for {
				row, err := r.Read()
				if err != nil {
					break
				}

				if len(row) < 4 {
					continue
				}

				post := &models.Post{
					ID:      row[0],
					UserID:  row[1],
					URL:     row[2],
					Caption: row[3],
					Status:  models.POST_STATUS_PUBLISHED,
				}

				_, err = db.NewInsert().Model(post).On("CONFLICT (id) DO NOTHING").Exec(ctx)
				if err != nil {
					fmt.Println(err)
					continue
				}
				imported++
			}

			fmt.Println("Imported", imported, "posts")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
