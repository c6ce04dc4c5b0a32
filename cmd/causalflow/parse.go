package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pauldambra/causal-flows/causal"
	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/render"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a description and print the diagram",
	Long: "Parse a description from a file (or stdin when the file is omitted or \"-\") " +
		"and print it in the chosen format. With no file and --stored, the last saved description is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringP("format", "f", "text", "Output format (json, dot, text)")
	parseCmd.Flags().Bool("stored", false, "Parse the stored description instead of a file")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	stored, _ := cmd.Flags().GetBool("stored")

	renderer, err := formatRenderer(cmd)
	if err != nil {
		return err
	}

	var text string
	switch {
	case stored:
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if text, err = st.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading stored text: %w", err)
		}
	default:
		data, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		text = string(data)
	}

	g := causal.ParseGraph(text)
	if viper.GetBool("verbose") {
		printGraphSummary(cmd.ErrOrStderr(), text, g)
	}
	return renderer.Render(cmd.OutOrStdout(), g)
}

// formatRenderer binds the command's --format flag to the "format" key at run
// time, so the flag, CAUSALFLOW_FORMAT and the config file all apply to
// whichever command is running.
func formatRenderer(cmd *cobra.Command) (render.Renderer, error) {
	if err := viper.BindPFlag("format", cmd.Flags().Lookup("format")); err != nil {
		return nil, fmt.Errorf("binding format flag: %w", err)
	}
	return render.Default().Lookup(viper.GetString("format"))
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading description file: %w", err)
	}
	return data, nil
}

// printGraphSummary prints counts for a parsed description.
func printGraphSummary(w io.Writer, text string, g *causal.Graph) {
	fmt.Fprintf(w, "  Nodes: %d\n", len(g.Nodes))
	fmt.Fprintf(w, "  Links: %d\n", len(g.Links))
	if dropped := flow.DroppedLines(text, g); dropped > 0 {
		fmt.Fprintf(w, "  Ignored lines: %d\n", dropped)
	}
}
