package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a description file every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringP("format", "f", "text", "Output format (json, dot, text)")
	watchCmd.Flags().Bool("clear", true, "Clear the terminal before each render")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	clearScreen, _ := cmd.Flags().GetBool("clear")

	renderer, err := formatRenderer(cmd)
	if err != nil {
		return err
	}

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

	session := flow.NewSession(st,
		flow.WithDebounce(viper.GetDuration("debounce")),
		flow.WithLogger(logger),
	)
	defer session.Close()

	out := cmd.OutOrStdout()
	session.Emitter().On(func(e flow.Event) {
		switch e.Type {
		case flow.EventGraphUpdated:
			if clearScreen {
				fmt.Fprint(out, "\033[H\033[2J")
			}
			if err := renderer.Render(out, e.Graph); err != nil {
				logger.Error("render failed", zap.Error(err))
			}
		case flow.EventStoreFailed:
			fmt.Fprintf(os.Stderr, "[watch] could not save: %v\n", e.Err)
		}
	})

	w, err := watch.New(args[0], session, logger)
	if err != nil {
		return err
	}
	if err := w.Submit(); err != nil {
		return err
	}
	if err := session.Flush(cmd.Context()); err != nil {
		logger.Warn("initial save failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "[watch] Watching %s (ctrl+c to stop)\n", w.Path())
	return w.Run(ctx)
}
