package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"aireading/internal/config"
	"aireading/internal/repository"
	"aireading/internal/repository/sqlite"
	"aireading/internal/storage"
)

// commandContext lazily shares config, database, and storage handles
// across subcommands.
type commandContext struct {
	cfg    *config.Config
	db     *sql.DB
	books  repository.BookRepository
	recs   repository.RecommendationRepository
	object storage.Service
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

func (c *commandContext) ensureDB(ctx context.Context) error {
	if c.db != nil {
		return nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	c.db = db
	c.books = sqlite.NewBookRepository(db)
	c.recs = sqlite.NewRecommendationRepository(db)
	if err := c.books.Init(ctx); err != nil {
		return err
	}
	return c.recs.Init(ctx)
}

func (c *commandContext) ensureStorage(ctx context.Context) (storage.Service, string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Storage.Bucket == "" {
		return nil, "", fmt.Errorf("storage bucket is not configured")
	}
	if c.object == nil {
		client, err := storage.NewClient(ctx, storage.ClientOptions{
			Region:   cfg.Storage.Region,
			Profile:  cfg.AWS.Profile,
			Endpoint: cfg.Storage.Endpoint,
		})
		if err != nil {
			return nil, "", err
		}
		c.object = storage.NewS3Service(client)
	}
	return c.object, cfg.Storage.Bucket, nil
}

func (c *commandContext) close() {
	if c.db != nil {
		c.db.Close()
	}
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "aireadingctl",
		Short:         "Operations tool for the aireading catalog and audio store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
	}

	rootCmd.AddCommand(newAudioCommand(ctx))
	rootCmd.AddCommand(newBookCommand(ctx))
	rootCmd.AddCommand(newRecommendationCommand(ctx))

	return rootCmd
}
