package cmd

import (
	"context"
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/export"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/store"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Inspect the application log",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted applications, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		listApplications(cmd)
	},
}

var applicationsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the screening summary of one application",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showApplication(cmd, args[0])
	},
}

var applicationsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the application log to an Excel workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		exportApplications(cmd)
	},
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(applicationsListCmd, applicationsShowCmd, applicationsExportCmd)

	applicationsCmd.PersistentFlags().Bool("remote", false, "read from sink.url instead of the local database")
	applicationsExportCmd.Flags().StringP("out", "o", "applications.xlsx", "output workbook")
}

type applicationSource interface {
	List(ctx context.Context) ([]application.Record, error)
}

func openApplications(ctx context.Context, cmd *cobra.Command, logger *zap.Logger) (applicationSource, func()) {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		if config.Sink.URL == "" {
			logger.Fatal("sink.url is required with --remote")
		}
		token, err := secrets.Optional(secrets.Source{Name: "sink token", Env: "TALENTSCOUT_SINK_TOKEN", File: config.Sink.TokenFile})
		if err != nil {
			logger.Fatal("loading the sink token", zap.Error(err))
		}
		return application.NewClient(config.Sink.URL, token, config.Sink.Timeout, logger), func() {}
	}

	st, err := store.Open(ctx, config.Server.Database, logger)
	if err != nil {
		logger.Fatal("opening the application log", zap.Error(err))
	}
	return st, func() { _ = st.Close() }
}

func newCommandLogger() *zap.Logger {
	logger, err := logger.NewTo(viper.GetBool("json"), viper.GetBool("debug"), "stderr")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

func listApplications(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newCommandLogger()

	src, closeSrc := openApplications(ctx, cmd, logger)
	defer closeSrc()

	records, err := src.List(ctx)
	if err != nil {
		logger.Fatal("listing applications", zap.Error(err))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSUBMITTED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.ID, rec.Name, rec.Email, rec.SubmittedAt.Local().Format(time.DateTime))
	}
	w.Flush()

	logger.Debug("listed applications", zap.Int("count", len(records)))
}

func showApplication(cmd *cobra.Command, id string) {
	ctx := context.Background()
	logger := newCommandLogger()

	src, closeSrc := openApplications(ctx, cmd, logger)
	defer closeSrc()

	records, err := src.List(ctx)
	if err != nil {
		logger.Fatal("listing applications", zap.Error(err))
	}

	for _, rec := range records {
		if rec.ID == id {
			fmt.Fprint(cmd.OutOrStdout(), rec.Summary)
			return
		}
	}

	logger.Fatal("application not found", zap.String("id", id))
}

func exportApplications(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newCommandLogger()

	src, closeSrc := openApplications(ctx, cmd, logger)
	defer closeSrc()

	records, err := src.List(ctx)
	if err != nil {
		logger.Fatal("listing applications", zap.Error(err))
	}

	out, _ := cmd.Flags().GetString("out")
	path, err := export.ToExcel(records, out)
	if err != nil {
		logger.Fatal("exporting applications", zap.Error(err))
	}

	logger.Info("exported applications", zap.String("path", path), zap.Int("count", len(records)))
}
