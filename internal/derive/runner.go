package derive

import (
	"go.uber.org/zap"

	"github.com/lampyrid/orstruct/internal/gff"
)

// Runner drives batch derivation over a full annotation table.
type Runner struct {
	deriver *Deriver
	logger  *zap.Logger
}

// NewRunner creates a batch runner with the given configuration.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		deriver: NewDeriver(cfg),
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for per-gene warnings and run diagnostics.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Deriver returns the underlying single-gene deriver.
func (r *Runner) Deriver() *Deriver {
	return r.deriver
}

// DeriveAll groups records by gene and derives every group over a worker
// pool. Output rows keep genes in first-appearance order. A gene that fails
// is skipped and reported in the result; it contributes no rows.
func (r *Runner) DeriveAll(records []gff.FeatureRecord, workers int) (*Result, error) {
	groups, order := groupByGene(records)

	items := make(chan WorkItem, len(order))
	for i, gene := range order {
		items <- WorkItem{Seq: i, GeneID: gene, Features: groups[gene]}
	}
	close(items)

	results := r.deriver.ParallelDerive(items, workers)

	out := &Result{}
	if err := OrderedCollect(results, func(res WorkResult) error {
		if res.Err != nil {
			r.logger.Warn("skipping gene",
				zap.String("gene", res.GeneID),
				zap.Error(res.Err))
			out.Skipped = append(out.Skipped, Skipped{GeneID: res.GeneID, Err: res.Err})
			return nil
		}
		if d := LengthDiscrepancy(res.Rows); d != 0 {
			r.logger.Debug("length self-check discrepancy",
				zap.String("gene", res.GeneID),
				zap.Int64("discrepancy", d))
		}
		out.Rows = append(out.Rows, res.Rows...)
		return nil
	}); err != nil {
		return nil, err
	}

	r.logger.Info("derivation complete",
		zap.Int("genes", len(order)-len(out.Skipped)),
		zap.Int("skipped", len(out.Skipped)),
		zap.Int("rows", len(out.Rows)))

	return out, nil
}

// groupByGene splits records into per-gene groups, preserving both the
// record order within each group and the genes' first-appearance order.
func groupByGene(records []gff.FeatureRecord) (map[string][]gff.FeatureRecord, []string) {
	groups := make(map[string][]gff.FeatureRecord)
	var order []string
	for _, rec := range records {
		if _, ok := groups[rec.GeneID]; !ok {
			order = append(order, rec.GeneID)
		}
		groups[rec.GeneID] = append(groups[rec.GeneID], rec)
	}
	return groups, order
}
