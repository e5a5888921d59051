package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtparse/internal/model"
	"github.com/cleared-dev/stmtparse/internal/source"
	"github.com/cleared-dev/stmtparse/internal/statement"
)

func newRowsCommand(g *globalFlags) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "rows <file>",
		Short: "Dump grouped rows with x positions and column kinds",
		Long: "rows prints every grouped row of the document as it reaches the assembler.\n" +
			"Each token is shown as x0:text[kind]; use it to calibrate template boundaries.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			defer log.Sync()

			parser, err := cfg.NewParser(log)
			if err != nil {
				return fmt.Errorf("building parser: %w", err)
			}
			doc, err := source.DefaultRegistry().Open(args[0])
			if err != nil {
				return err
			}
			if page > len(doc.Pages) {
				return fmt.Errorf("page %d out of range (document has %d)", page, len(doc.Pages))
			}
			return dumpRows(cmd.OutOrStdout(), parser, doc, page)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "only this page (1-based; 0 for all)")

	return cmd
}

func dumpRows(w io.Writer, parser *statement.Parser, doc model.Document, only int) error {
	for i, p := range doc.Pages {
		num := p.Number
		if num <= 0 {
			num = i + 1
		}
		if only > 0 && num != only {
			continue
		}
		fmt.Fprintf(w, "== page %d ==\n", num)

		grouped, rows := parser.ClassifyPage(p)
		for j, r := range rows {
			cells := make([]string, len(r.Fields))
			for k, f := range r.Fields {
				kind := f.Kind.String()
				if f.AmountShaped {
					kind += "*"
				}
				cells[k] = fmt.Sprintf("%.1f:%s[%s]", f.X, f.Text, kind)
			}
			if _, err := fmt.Fprintf(w, "%7.1f  %s\n", grouped[j].Key, strings.Join(cells, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}
