package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/approval"
	"github.com/cardscan-dev/cardboard/pkg/board"
	"github.com/cardscan-dev/cardboard/pkg/config"
	"github.com/cardscan-dev/cardboard/pkg/controller"
	"github.com/cardscan-dev/cardboard/pkg/staging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cardboard",
		Short: "Terminal client for the card scanner backend",
		Long: "cardboard is a terminal client for a business card scanner service. " +
			"It shows extracted cards on a label board, previews and edits card details, " +
			"stages image uploads, and exports the card list to Excel.",
		RunE: run,
	}

	rootCmd.Flags().String("server", "", "backend base URL")
	rootCmd.Flags().String("data-dir", "", "directory for local state")
	rootCmd.Flags().String("log-file", "", "debug log location")
	rootCmd.Flags().String("download-dir", "", "directory for Excel exports")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(0o666))
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}

	defer logFile.Close()

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	log.Info().Str("server", cfg.Server).Msg("starting application...")

	store, err := approval.NewStore(ctx, cfg.ApprovalDB())
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.Server)

	body, err := client.ManagePage(ctx)
	if err != nil {
		return fmt.Errorf("error reaching server at %s: %w", cfg.Server, err)
	}

	cards, err := board.ExtractSnapshot(body)
	body.Close()

	if err != nil {
		return err
	}

	intake := staging.NewIntake(cfg.PreviewDir())

	downloadDir := v.GetString("download-dir")
	if downloadDir == "" {
		downloadDir = filepath.Join(cfg.DataDir, "exports")
	}

	c, err := controller.NewController(ctx, client, store, intake, cards, downloadDir)
	if err != nil {
		return err
	}

	return c.Go()
}
