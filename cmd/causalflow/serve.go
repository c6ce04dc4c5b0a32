package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/metrics"
	"github.com/pauldambra/causal-flows/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live diagram over HTTP",
	Long:  "Serve the stored description over HTTP with a server-sent-events stream of graph updates.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().StringSlice("allowed-origins", []string{"*"}, "CORS origins allowed to call the API")

	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("allowed_origins", serveCmd.Flags().Lookup("allowed-origins"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	collector := metrics.NewCollector("causalflow")
	session := flow.NewSession(st,
		flow.WithDebounce(viper.GetDuration("debounce")),
		flow.WithLogger(logger),
		flow.WithMetrics(collector),
	)
	defer session.Close()

	srv := server.New(session,
		server.WithLogger(logger),
		server.WithMetrics(collector),
		server.WithAllowedOrigins(viper.GetStringSlice("allowed_origins")...),
	)
	if err := session.Load(cmd.Context()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "[serve] Listening on http://%s\n", viper.GetString("addr"))
	err = srv.Run(ctx, viper.GetString("addr"))

	// Keep an edit that arrived just before shutdown.
	if flushErr := session.Flush(context.Background()); flushErr != nil {
		fmt.Fprintf(os.Stderr, "[serve] could not save: %v\n", flushErr)
	}
	return err
}
