package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/stmtparse/internal/export"
	"github.com/cleared-dev/stmtparse/internal/model"
	"github.com/cleared-dev/stmtparse/internal/source"
	"github.com/cleared-dev/stmtparse/internal/statement"
)

// errParseFailed signals a written but unsuccessful result.
var errParseFailed = errors.New("parse failed")

func newParseCommand(g *globalFlags) *cobra.Command {
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement (.pdf or token .json) into transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			defer log.Sync()

			write, err := export.For(format)
			if err != nil {
				return err
			}
			parser, err := cfg.NewParser(log)
			if err != nil {
				return fmt.Errorf("building parser: %w", err)
			}

			res := runParse(cmd.Context(), parser, args[0], log)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := write(w, res); err != nil {
				return fmt.Errorf("writing result: %w", err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), statement.Describe(res))
			if !res.Success {
				return errParseFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}

// runParse opens path and parses it. Source failures become an aborted result
// so that every run produces one.
func runParse(ctx context.Context, parser *statement.Parser, path string, log *zap.Logger) model.ParseResult {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := source.DefaultRegistry().Open(path)
	if err != nil {
		log.Error("loading document", zap.String("path", path), zap.Error(err))
		return statement.Abort(fmt.Sprintf("loading document: %v", err))
	}
	return parser.Parse(ctx, doc)
}
