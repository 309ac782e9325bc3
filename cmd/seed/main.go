package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"claimdocs/internal/config"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/repository/postgres"
)

// catalogFile is the YAML shape of the required-document-type seed.
type catalogFile struct {
	ObjectTypes []struct {
		ObjectType string `yaml:"object_type"`
		Types      []struct {
			Code      string `yaml:"code"`
			Name      string `yaml:"name"`
			Required  bool   `yaml:"required"`
			SortOrder int    `yaml:"sort_order"`
		} `yaml:"types"`
	} `yaml:"object_types"`
}

func main() {
	_ = godotenv.Load()

	path := flag.String("file", "seed/required_document_types.yaml", "catalog seed file")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	if err := postgres.Migrate(cfg.DatabaseURL, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewCatalogRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	})

	count := 0
	for _, ot := range catalog.ObjectTypes {
		for _, t := range ot.Types {
			entry := &models.RequiredDocumentType{
				Code:       t.Code,
				ObjectType: ot.ObjectType,
				Name:       t.Name,
				Required:   t.Required,
				SortOrder:  t.SortOrder,
			}
			if err := repo.Upsert(ctx, entry); err != nil {
				log.Fatalf("Failed to seed %s/%s: %v", ot.ObjectType, t.Code, err)
			}
			count++
		}
	}

	logger.Info("catalog seeded", "entries", count, "file", *path)
}
