package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/echolabs-ai/stt-bench/internal/align"
	"github.com/echolabs-ai/stt-bench/internal/normalize"
	"golang.org/x/sync/errgroup"
)

// Sample is one scored comparison: an identifier plus the raw reference and
// hypothesis texts.
type Sample struct {
	ID         string
	Reference  string
	Hypothesis string
}

// Counters accumulates alignment counts across samples. The fold is a plain
// sum, so grouping does not matter; only the report emission order does.
type Counters struct {
	Hits          int
	Substitutions int
	Insertions    int
	Deletions     int
}

func (c *Counters) Fold(r align.Result) {
	c.Hits += r.Hits
	c.Substitutions += r.Substitutions
	c.Insertions += r.Insertions
	c.Deletions += r.Deletions
}

func (c *Counters) Merge(o Counters) {
	c.Hits += o.Hits
	c.Substitutions += o.Substitutions
	c.Insertions += o.Insertions
	c.Deletions += o.Deletions
}

// WordCount is the pooled reference word count: hits + substitutions +
// deletions. Samples with an empty reference contribute nothing to it.
func (c Counters) WordCount() int {
	return c.Hits + c.Substitutions + c.Deletions
}

// WER is the pooled word error rate, 0 when no reference words were seen.
func (c Counters) WER() float64 {
	wc := c.WordCount()
	if wc == 0 {
		return 0
	}
	return float64(c.Substitutions+c.Insertions+c.Deletions) / float64(wc)
}

// Builder renders per-sample alignment blocks and the final aggregate block.
// A single normalization policy is fixed at construction and applied to both
// sides of every comparison, so mismatched policies cannot occur within a run.
type Builder struct {
	policy normalize.Policy
	blocks []string
	totals Counters
}

func NewBuilder(policy normalize.Policy) *Builder {
	return &Builder{policy: policy}
}

// Add normalizes both texts, aligns them, renders the sample block and folds
// the counts. Blocks are emitted in Add order.
func (b *Builder) Add(id, reference, hypothesis string) align.Result {
	res := align.Words(normalize.Words(b.policy, reference), normalize.Words(b.policy, hypothesis))
	b.AddAligned(id, res)
	return res
}

// AddAligned folds an already computed alignment, for callers that run the
// engine themselves (e.g. in parallel).
func (b *Builder) AddAligned(id string, res align.Result) {
	b.blocks = append(b.blocks, renderBlock(id, res))
	b.totals.Fold(res)
}

func (b *Builder) Totals() Counters {
	return b.totals
}

// Render emits all sample blocks in insertion order followed by the aggregate
// block. The result ends with a newline.
func (b *Builder) Render() string {
	var sb strings.Builder
	for _, blk := range b.blocks {
		sb.WriteString(blk)
		sb.WriteString("\n")
	}
	sb.WriteString("(Average)\n")
	fmt.Fprintf(&sb, "Word count: %d\n", b.totals.WordCount())
	fmt.Fprintf(&sb, "WER: %.1f%%\n", b.totals.WER()*100)
	return sb.String()
}

// renderBlock produces the per-sample text: identifier, WER line and the
// aligned REF/HYP rows. Deleted reference tokens show a '*' placeholder on
// the hypothesis row, inserted hypothesis tokens a placeholder on the
// reference row, and substitutions are flagged on a marker row underneath.
func renderBlock(id string, res align.Result) string {
	refRow := make([]string, len(res.Ops))
	hypRow := make([]string, len(res.Ops))
	markRow := make([]string, len(res.Ops))
	errored := false

	for i, op := range res.Ops {
		var ref, hyp, mark string
		switch op.Kind {
		case align.Match:
			ref, hyp = op.Ref, op.Hyp
		case align.Substitute:
			ref, hyp, mark = op.Ref, op.Hyp, "S"
			errored = true
		case align.Delete:
			ref, mark = op.Ref, "D"
			hyp = strings.Repeat("*", len([]rune(op.Ref)))
			errored = true
		case align.Insert:
			hyp, mark = op.Hyp, "I"
			ref = strings.Repeat("*", len([]rune(op.Hyp)))
			errored = true
		}
		width := len([]rune(ref))
		if w := len([]rune(hyp)); w > width {
			width = w
		}
		refRow[i] = pad(ref, width)
		hypRow[i] = pad(hyp, width)
		markRow[i] = pad(mark, width)
	}

	lines := []string{
		id,
		fmt.Sprintf("WER: %.1f%%", res.WER()*100),
		strings.TrimRight("REF: "+strings.Join(refRow, " "), " "),
		strings.TrimRight("HYP: "+strings.Join(hypRow, " "), " "),
	}
	if errored {
		lines = append(lines, strings.TrimRight("     "+strings.Join(markRow, " "), " "))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// Build scores samples with bounded parallelism and renders the report. Each
// alignment is independent, so the work fans out; results are reinserted by
// index so the report order always matches the input order.
func Build(ctx context.Context, policy normalize.Policy, samples []Sample, workers int) (string, Counters, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]align.Result, len(samples))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range samples {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := normalize.Words(policy, s.Reference)
			hyp := normalize.Words(policy, s.Hypothesis)
			results[i] = align.Words(ref, hyp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", Counters{}, err
	}

	b := NewBuilder(policy)
	for i, s := range samples {
		b.AddAligned(s.ID, results[i])
	}
	return b.Render(), b.Totals(), nil
}
