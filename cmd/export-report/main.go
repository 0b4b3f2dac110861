package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"transparency-backend/config"
	"transparency-backend/logging"
	"transparency-backend/render"
	"transparency-backend/repository"
	"transparency-backend/service"
	"transparency-backend/storage"

	"github.com/spf13/cobra"
)

var (
	userID      string
	chatID      string
	storageType string
	outDir      string
	productName string
	remove      bool
)

var rootCmd = &cobra.Command{
	Use:   "export-report --user <id> --chat <id>",
	Short: "Render a stored report as PDF and save it",
	Long: `Loads the report of a chat from the configured store, renders it as PDF and writes
it to local disk or S3 (STORAGE_TYPE). Flags override the storage settings.
With --delete the stored export is removed instead.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.Flags().StringVar(&userID, "user", "", "owner of the report")
	rootCmd.Flags().StringVar(&chatID, "chat", "", "chat the report was generated from")
	rootCmd.Flags().StringVar(&storageType, "storage", "", "local or s3 (default from STORAGE_TYPE)")
	rootCmd.Flags().StringVar(&outDir, "out", "", "directory for local storage (default from STORAGE_LOCAL_PATH)")
	rootCmd.Flags().StringVar(&productName, "product", "", "product name printed in the page footer")
	rootCmd.Flags().BoolVar(&remove, "delete", false, "remove the stored export instead of writing it")
	_ = rootCmd.MarkFlagRequired("user")
	_ = rootCmd.MarkFlagRequired("chat")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if storageType != "" {
		cfg.Storage.Type = storageType
	}
	if outDir != "" {
		cfg.Storage.LocalPath = outDir
	}

	cfg.Log.Format = "console"
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background()) //nolint:errcheck

	store, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	var assemblerOpts []render.AssemblerOption
	if productName != "" {
		assemblerOpts = append(assemblerOpts, render.WithProductName(productName))
	}
	svc := service.NewInterviewService(
		service.WithQuestionAnswerRepository(stores.QuestionAnswers),
		service.WithReportRepository(stores.Reports),
		service.WithRecentRepository(stores.Recents),
		service.WithAssembler(render.NewAssembler(assemblerOpts...)),
		service.WithLogger(logger),
	)

	e := &exporter{reports: svc, store: store, logger: logger}
	if remove {
		return e.Remove(ctx, userID, chatID)
	}

	location, err := e.Export(ctx, userID, chatID)
	if err != nil {
		return err
	}
	fmt.Println(location)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
