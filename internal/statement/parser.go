// Package statement drives the per-page pipeline across a document and
// aggregates the pages into one scored ParseResult.
package statement

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/stmtparse/internal/assemble"
	"github.com/cleared-dev/stmtparse/internal/classify"
	"github.com/cleared-dev/stmtparse/internal/layout"
	"github.com/cleared-dev/stmtparse/internal/model"
)

// Options configure a Parser. Zero values fall back to defaults where one exists.
type Options struct {
	Boundaries       classify.Boundaries
	RowTolerance     float64
	Assemble         assemble.Options
	DropDescriptions []string
	Guard            Guard // nil accepts every document
	Policy           Policy
	Workers          int
	Logger           *zap.Logger
}

// Parser runs the pipeline. It keeps no state between Parse calls and is
// safe for concurrent use.
type Parser struct {
	classifier *classify.Classifier
	assembler  *assemble.Assembler
	tolerance  float64
	drop       []string
	guard      Guard
	policy     Policy
	workers    int
	log        *zap.Logger

	// process handles one page; replaced in tests.
	process func(model.Page) assemble.PageResult
}

// NewParser validates opts and returns a Parser.
func NewParser(opts Options) (*Parser, error) {
	c, err := classify.New(opts.Boundaries)
	if err != nil {
		return nil, err
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	p := &Parser{
		classifier: c,
		assembler:  assemble.New(opts.Assemble),
		tolerance:  opts.RowTolerance,
		drop:       opts.DropDescriptions,
		guard:      opts.Guard,
		policy:     opts.Policy,
		workers:    opts.Workers,
		log:        opts.Logger,
	}
	if p.tolerance <= 0 {
		p.tolerance = layout.DefaultTolerance
	}
	if p.workers <= 0 {
		p.workers = 1
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	p.process = p.processPage
	return p, nil
}

// Parse converts a document into a ParseResult. It never panics and never
// fails outright: rejection and unrecoverable faults come back as a result
// with Success false.
func (p *Parser) Parse(ctx context.Context, doc model.Document) (res model.ParseResult) {
	log := p.log.With(zap.String("document", doc.Name), zap.Int("pages", len(doc.Pages)))

	defer func() {
		if r := recover(); r != nil {
			log.Error("parse aborted by fault", zap.Any("panic", r))
			res = Abort(fmt.Sprintf("unrecoverable processing fault: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		log.Error("parse canceled before page processing", zap.Error(err))
		return Abort(fmt.Sprintf("parse canceled: %v", err))
	}

	agg := newAggregator(p.policy, p.drop)
	if p.guard != nil {
		report, err := p.guard.Inspect(doc)
		if err != nil {
			log.Error("document rejected", zap.Error(err))
			return Abort(fmt.Sprintf("document rejected: %v", err), report.Warnings...)
		}
		agg.warn(report.Warnings...)
	}

	for _, pr := range p.processPages(doc.Pages) {
		log.Debug("page assembled",
			zap.Int("page", pr.Page),
			zap.Int("records", len(pr.Records)),
			zap.Int("warnings", len(pr.Warnings)))
		agg.addPage(pr)
	}

	res = agg.result()
	log.Info("parse complete",
		zap.Int("transactions", len(res.Transactions)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Float64("confidence", res.Confidence))
	return res
}

// processPages fans pages out to at most p.workers goroutines. Results are
// indexed by page position, so output order never depends on completion order.
func (p *Parser) processPages(pages []model.Page) []assemble.PageResult {
	results := make([]assemble.PageResult, len(pages))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, page := range pages {
		if page.Number <= 0 {
			page.Number = i + 1
		}
		g.Go(func() error {
			results[i] = p.safeProcess(page)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// safeProcess converts a panic inside one page into a page_fault warning.
func (p *Parser) safeProcess(page model.Page) (pr assemble.PageResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("page fault", zap.Int("page", page.Number), zap.Any("panic", r))
			pr = assemble.PageResult{
				Page: page.Number,
				Warnings: []model.Warning{{
					Category: model.WarnPageFault,
					Page:     page.Number,
					Message:  fmt.Sprintf("processing fault: %v", r),
				}},
			}
		}
	}()
	return p.process(page)
}

// processPage is the pure per-page pipeline: group, classify, assemble.
func (p *Parser) processPage(page model.Page) assemble.PageResult {
	_, rows := p.ClassifyPage(page)
	return p.assembler.AssemblePage(page.Number, rows)
}

// ClassifyPage exposes the grouped and classified rows of one page for diagnostics.
func (p *Parser) ClassifyPage(page model.Page) ([]layout.Row, []classify.Row) {
	grouped := layout.GroupRows(page.Tokens, p.tolerance)
	rows := make([]classify.Row, len(grouped))
	for i, r := range grouped {
		rows[i] = p.classifier.Classify(r)
	}
	return grouped, rows
}

// aggregator accumulates one parse. A fresh one is created per Parse call.
type aggregator struct {
	policy   Policy
	drop     []string
	records  []model.TransactionRecord
	warnings []model.Warning
}

func newAggregator(policy Policy, drop []string) *aggregator {
	return &aggregator{policy: policy, drop: drop}
}

func (a *aggregator) warn(ws ...model.Warning) {
	a.warnings = append(a.warnings, ws...)
}

// addPage filters dropped descriptions before the empty check, so a page
// left with only dropped records still counts as empty.
func (a *aggregator) addPage(pr assemble.PageResult) {
	kept := 0
	for _, r := range pr.Records {
		if containsAny(r.Description, a.drop) {
			continue
		}
		a.records = append(a.records, r)
		kept++
	}
	a.warn(pr.Warnings...)
	if kept == 0 {
		a.warn(model.Warning{
			Category: model.WarnEmptyPage,
			Page:     pr.Page,
			Message:  "no transactions found",
		})
	}
}

func (a *aggregator) result() model.ParseResult {
	records := a.records
	if records == nil {
		records = []model.TransactionRecord{}
	}

	return model.ParseResult{
		Success:      true,
		Transactions: records,
		Confidence:   a.policy.Confidence(a.warnings),
		Warnings:     render(a.warnings),
	}
}

// Abort builds the fatal form of a result: no transactions, zero confidence.
func Abort(reason string, ws ...model.Warning) model.ParseResult {
	return model.ParseResult{
		Success:      false,
		Transactions: []model.TransactionRecord{},
		Confidence:   0,
		Warnings:     render(ws),
		AbortReason:  reason,
	}
}

func render(ws []model.Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

// Describe returns a short summary line for logs and CLI output.
func Describe(res model.ParseResult) string {
	if !res.Success {
		return "aborted: " + res.AbortReason
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d transactions, confidence %.2f%%", len(res.Transactions), res.Confidence*100)
	if n := len(res.Warnings); n > 0 {
		fmt.Fprintf(&b, ", %d warnings", n)
	}
	return b.String()
}
