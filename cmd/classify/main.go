// Command classify runs the keyword classifier on text from the arguments
// or stdin and prints the prediction as JSON.
//
//	go run ./cmd/classify "schedule a meeting for friday"
//	echo "reply to the email" | go run ./cmd/classify --scores
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autotask-ml/internal/classifier"
	"autotask-ml/internal/taxonomy"
)

const maxStdinBytes = 1 << 20

type options struct {
	taxonomyFile string
	strategy     string
	scores       bool
}

type output struct {
	classifier.Prediction
	Scores []classifier.Score `json:"scores,omitempty"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify a task description",
		Long: `classify predicts the task type of a free-text description using the
keyword classifier. Text is taken from the arguments, or from stdin when no
arguments are given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.taxonomyFile, "taxonomy", "t", "", "YAML taxonomy file (default: built-in categories)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", classifier.StrategyKeyword, "Classifier strategy")
	cmd.Flags().BoolVar(&opts.scores, "scores", false, "Include the full score distribution")
	return cmd
}

func run(stdin io.Reader, stdout io.Writer, args []string, opts options) error {
	tx := taxonomy.Default()
	if opts.taxonomyFile != "" {
		loaded, err := taxonomy.LoadFile(opts.taxonomyFile)
		if err != nil {
			return fmt.Errorf("load taxonomy: %w", err)
		}
		tx = loaded
	}

	strategy, err := classifier.NewStrategy(opts.strategy, tx)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		raw, err := io.ReadAll(io.LimitReader(stdin, maxStdinBytes))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}

	scores := strategy.Score(text)
	out := output{Prediction: classifier.Pick(tx, scores)}
	if opts.scores {
		out.Scores = scores
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
