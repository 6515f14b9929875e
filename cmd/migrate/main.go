package main

import (
	"log"
	"os"

	"ideaspark-be/internal/model"
	"ideaspark-be/pkg/database"

	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting ideas table migration...")

	// 3. AutoMigrate creates the table, columns and the owner/created_at index
	if err := db.AutoMigrate(&model.Idea{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: constraints GORM tags cannot express
	postSQL := []string{
		`DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ideas_status_check') THEN
				ALTER TABLE ideas ADD CONSTRAINT ideas_status_check
					CHECK (status IN ('draft', 'analyzed', 'improved', 'srs_ready'));
			END IF;
		END $$;`,
		`ALTER TABLE ideas ENABLE ROW LEVEL SECURITY;`,
		`DO $$ BEGIN
			IF EXISTS (SELECT 1 FROM pg_proc WHERE proname = 'uid' AND pronamespace = 'auth'::regnamespace)
				AND NOT EXISTS (SELECT 1 FROM pg_policies WHERE tablename = 'ideas' AND policyname = 'ideas_owner') THEN
				CREATE POLICY ideas_owner ON ideas USING (auth.uid() = user_id) WITH CHECK (auth.uid() = user_id);
			END IF;
		EXCEPTION WHEN invalid_schema_name THEN NULL;
		END $$;`,
	}

	for _, sql := range postSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v. Continuing...", err)
		}
	}

	log.Println("Migration finished")
}
