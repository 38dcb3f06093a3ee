package cmd

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rm-hull/tempo-api/internal"
)

var rootCmd = &cobra.Command{
	Use:   "tempo-api",
	Short: "Fetches EDF Tempo day colours from the RTE open data API",
	Long: `tempo-api talks to the RTE "Tempo-like supply contract" API to find
out the colour (blue, white or red) of past days and of tomorrow.

It can run as:
  - A one-shot CLI printing this week's colours (default)
  - An importer archiving day colours into SQLite
  - An HTTP API server with scheduled imports`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !trace {
			return nil
		}
		shutdown, err := internal.InstallStdoutTracing()
		if err != nil {
			return err
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTracing == nil {
			return nil
		}
		return shutdownTracing(context.Background())
	},
}

var version = "dev"

var (
	opts            Options
	trace           bool
	shutdownTracing func(context.Context) error
)

func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the command line. Unhandled API responses are programming
// errors and are reported with their full stack.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "tempo-api version %s\n" .Version}}`)

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "week")
	}

	err := rootCmd.Execute()
	if err != nil {
		if internal.IsFatal(err) {
			log.Fatalf("%+v", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.CredentialsFile, "credentials", "", "Path to the base64 credentials file from the RTE data portal")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Print OpenTelemetry spans to stdout")

	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newNextDayCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newApiServerCmd())
}

func newImportCmd() *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tempo day colours into the database",
		Long: `Fetch day colours from RTE and upsert them into the SQLite archive.
Without --since only the next day is imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Import(cmd.Context(), opts, since)
		},
	}

	cmd.Flags().StringVar(&opts.DbPath, "db", "./data/tempo.db", "Path to tempo SQLite database")
	cmd.Flags().StringVar(&since, "since", "", "Import every day from this date (YYYY-MM-DD) up to tomorrow")
	return cmd
}

func newApiServerCmd() *cobra.Command {
	var port int
	var debug bool

	cmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ApiServer(cmd.Context(), opts, port, debug)
		},
	}

	cmd.Flags().StringVar(&opts.DbPath, "db", "./data/tempo.db", "Path to tempo SQLite database")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")
	return cmd
}
