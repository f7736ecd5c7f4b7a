// Package dashboard derives the dashboard documents from the current
// validation result and dataset, and keeps them in shared storage for the
// external dashboard to read.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/validation"
	"github.com/JaimeStill/pulse/pkg/storage"
)

const (
	parameterColumns = 4
	sparkLength      = 10
	spcBatches       = 20
	baseCompletion   = 15.0
)

// Synchronizer rebuilds the dashboard documents. Every sub-sync reads its
// inputs at call time and overwrites exactly one document, falling back to a
// fixed payload when an input is missing.
type Synchronizer struct {
	results    validation.Store
	source     dataset.Source
	docs       storage.System
	metrics    SyntheticMetricsProvider
	prefix     string
	operatorID string
	logger     *slog.Logger
}

// New creates a Synchronizer writing documents under cfg.Prefix in docs.
func New(
	cfg *Config,
	results validation.Store,
	source dataset.Source,
	docs storage.System,
	metrics SyntheticMetricsProvider,
	logger *slog.Logger,
) *Synchronizer {
	return &Synchronizer{
		results:    results,
		source:     source,
		docs:       docs,
		metrics:    metrics,
		prefix:     cfg.Prefix,
		operatorID: cfg.OperatorID,
		logger:     logger.With("system", "dashboard"),
	}
}

// Hook adapts SyncAll to a post-validation hook.
func (s *Synchronizer) Hook() validation.Hook {
	return func(ctx context.Context, _ *validation.Result) error {
		report := s.SyncAll(ctx)
		if !report.Succeeded() {
			return fmt.Errorf("%w: %s", ErrSyncFailed, report.Error)
		}
		return nil
	}
}

// SyncAll runs every sub-sync in order. The first failure stops the run and
// is reported in the result; documents already written stay in place.
func (s *Synchronizer) SyncAll(ctx context.Context) *Report {
	report := &Report{}

	err := func() error {
		var err error
		if report.Validation, err = s.SyncValidation(ctx); err != nil {
			return err
		}
		if report.ControlMeta, err = s.SyncControlMeta(ctx); err != nil {
			return err
		}
		if report.Parameters, err = s.SyncParameters(ctx); err != nil {
			return err
		}
		if report.SPC, err = s.SyncSPC(ctx); err != nil {
			return err
		}
		report.OOCBreakdown, err = s.SyncOOCBreakdown(ctx)
		return err
	}()

	report.SyncTimestamp = time.Now().UTC()

	if err != nil {
		report.Status = SyncError
		report.Error = err.Error()
		syncsTotal.WithLabelValues(SyncError).Inc()
		s.logger.Error("dashboard sync failed", "error", err)
		return report
	}

	report.Status = SyncSuccess
	syncsTotal.WithLabelValues(SyncSuccess).Inc()
	lastSuccess.Set(float64(report.SyncTimestamp.Unix()))
	s.logger.Info("dashboard synced", "documents", len(Documents))
	return report
}

// SyncValidation writes the dataset health summary.
func (s *Synchronizer) SyncValidation(ctx context.Context) (*Validation, error) {
	result, frame, err := s.inputs(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := resolve(result,
		func(r *validation.Result) *Validation {
			return resolve(frame,
				func(f *dataset.Frame) *Validation { return validationDoc(r, f, now) },
				func() *Validation { return validationFallback(now, "source data file not found") },
			)
		},
		func() *Validation { return validationFallback(now, "no validation results found") },
	)

	return doc, s.write(ctx, DocValidation, doc)
}

// SyncControlMeta writes the control room metadata.
func (s *Synchronizer) SyncControlMeta(ctx context.Context) (*ControlMeta, error) {
	result, frame, err := s.inputs(ctx)
	if err != nil {
		return nil, err
	}

	batches, err := s.metrics.BatchesToday(ctx)
	if err != nil {
		return nil, fmt.Errorf("estimate batches: %w", err)
	}

	st := resolve(result, stateOf, func() state {
		return state{successRate: 0, status: StateError, alerts: 1}
	})

	total := resolve(frame,
		func(f *dataset.Frame) int { return f.Rows() },
		s.metrics.DefaultTotalProcessed,
	)

	avg := s.metrics.AvgProcessingTime()
	queue := s.metrics.QueueSize(result)

	doc := &ControlMeta{
		OperatorID:        s.operatorID,
		BatchesToday:      batches,
		LastUpdate:        time.Now().UTC(),
		Status:            st.status,
		TotalProcessed:    total,
		SuccessRate:       st.successRate,
		AvgProcessingTime: avg,
		Alerts:            st.alerts,
		SystemHealth:      systemHealth(st.successRate),
		DriftAlerts24h:    st.alerts,
		OOCPercent:        100 - st.successRate,
		Queue:             queue,
		TimeToCompletion:  float64(queue)*(avg/60) + baseCompletion,
	}

	return doc, s.write(ctx, DocControlMeta, doc)
}

// SyncParameters writes the per-column quality table for the first four
// dataset columns.
func (s *Synchronizer) SyncParameters(ctx context.Context) ([]Parameter, error) {
	result, frame, err := s.inputs(ctx)
	if err != nil {
		return nil, err
	}

	params := resolve(result,
		func(*validation.Result) []Parameter {
			return resolve(frame, parametersOf, fallbackParameters)
		},
		func() []Parameter { return []Parameter{} },
	)

	return params, s.write(ctx, DocParameters, params)
}

// SyncSPC writes a freshly sampled SPC series. It does not depend on the
// validation result and differs on every call.
func (s *Synchronizer) SyncSPC(ctx context.Context) (*SPC, error) {
	doc := spcOf(s.metrics.ProcessingSeries(spcBatches))
	return doc, s.write(ctx, DocSPC, doc)
}

// SyncOOCBreakdown writes out-of-control percentages per offending column.
func (s *Synchronizer) SyncOOCBreakdown(ctx context.Context) (*OOCBreakdown, error) {
	result, err := s.loadResult(ctx)
	if err != nil {
		return nil, err
	}

	doc := resolve(result, oocOf, func() *OOCBreakdown {
		return &OOCBreakdown{
			Parameter: []string{"Age", "Income", "Education"},
			OOC:       []float64{2.1, 1.5, 0.8},
		}
	})

	return doc, s.write(ctx, DocOOCBreakdown, doc)
}

// Document returns the stored JSON of the named document.
func (s *Synchronizer) Document(ctx context.Context, name string) (json.RawMessage, error) {
	if !Known(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}

	body, err := s.docs.Download(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("read %s document: %w", name, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s document: %w", name, err)
	}
	return json.RawMessage(data), nil
}

func (s *Synchronizer) key(name string) string {
	return path.Join(s.prefix, name+".json")
}

func (s *Synchronizer) write(ctx context.Context, name string, v any) error {
	if err := storage.WriteJSON(ctx, s.docs, s.key(name), v); err != nil {
		return fmt.Errorf("write %s document: %w", name, err)
	}
	s.logger.Debug("document written", "document", name)
	return nil
}

// inputs reads the validation result and the dataset concurrently.
func (s *Synchronizer) inputs(ctx context.Context) (*validation.Result, *dataset.Frame, error) {
	var (
		result *validation.Result
		frame  *dataset.Frame
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.loadResult(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		frame, err = s.loadFrame(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, frame, nil
}

// loadResult returns nil without error when no result has been persisted.
func (s *Synchronizer) loadResult(ctx context.Context) (*validation.Result, error) {
	r, err := s.results.Read(ctx)
	if errors.Is(err, validation.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

// loadFrame returns nil without error when the dataset is absent.
func (s *Synchronizer) loadFrame(ctx context.Context) (*dataset.Frame, error) {
	f, err := s.source.Load(ctx)
	if errors.Is(err, dataset.ErrNotFound) {
		return nil, nil
	}
	return f, err
}

// QualityScore rates a dataset in [0, 100] from its completeness and
// duplicate ratio. An empty dataset scores 0.
func QualityScore(f *dataset.Frame) float64 {
	rows := f.Rows()
	total := rows * len(f.Columns)

	missing := 0
	for _, c := range f.Columns {
		missing += c.NullCount()
	}

	var completeness, duplicates float64
	if total > 0 {
		completeness = float64(total-missing) / float64(total)
	}
	if rows > 0 {
		duplicates = float64(f.DuplicateRows()) / float64(rows)
	}

	score := (completeness*0.8 - duplicates*0.2) * 100
	return math.Max(0, math.Min(100, score))
}

func validationDoc(r *validation.Result, f *dataset.Frame, now time.Time) *Validation {
	doc := &Validation{
		RowCount:          f.Rows(),
		ColumnCount:       len(f.Columns),
		MissingValues:     make(map[string]int),
		DataTypes:         make(map[string]string, len(f.Columns)),
		ValidationStatus:  StatusFailed,
		LastValidated:     now,
		QualityScore:      QualityScore(f),
		AnomaliesDetected: r.Rules.Len(),
		DuplicateRows:     f.DuplicateRows(),
		ValidationIssues: &IssueCounts{
			MissingIssues: r.Missing.Len(),
			DTypeIssues:   r.DTypes.Len(),
			RuleIssues:    r.Rules.Len(),
		},
	}

	if r.OK {
		doc.ValidationStatus = StatusPassed
	}

	for _, c := range f.Columns {
		if n := c.NullCount(); n > 0 {
			doc.MissingValues[c.Name] = n
		}
		doc.DataTypes[c.Name] = c.DType
	}

	return doc
}

func validationFallback(now time.Time, reason string) *Validation {
	return &Validation{
		MissingValues:    map[string]int{},
		DataTypes:        map[string]string{},
		ValidationStatus: StatusFailed,
		LastValidated:    now,
		Error:            reason,
	}
}

type state struct {
	successRate float64
	status      string
	alerts      int
}

func stateOf(r *validation.Result) state {
	if r.OK {
		return state{successRate: 100, status: StateActive, alerts: 0}
	}
	return state{successRate: 85, status: StateWarning, alerts: 1}
}

func systemHealth(successRate float64) string {
	switch {
	case successRate > 95:
		return HealthGood
	case successRate > 80:
		return HealthWarning
	default:
		return HealthCritical
	}
}

var titler = cases.Title(language.Und)

func displayName(column string) string {
	return titler.String(strings.ReplaceAll(column, "_", " "))
}

func parametersOf(f *dataset.Frame) []Parameter {
	cols := f.Columns[:min(parameterColumns, len(f.Columns))]
	params := make([]Parameter, 0, len(cols))

	for _, c := range cols {
		var spark []*float64
		if c.Numeric() {
			spark = c.Head(sparkLength)
		} else {
			counts := c.ValueCounts()
			counts = counts[:min(sparkLength, len(counts))]
			spark = make([]*float64, len(counts))
			for i, vc := range counts {
				n := float64(vc.Count)
				spark[i] = &n
			}
		}

		ooc := math.Max(0.1, c.NullFraction()*100*2)
		params = append(params, Parameter{
			Name:  displayName(c.Name),
			Spark: spark,
			OOC:   ooc,
			Pass:  ooc < 5.0,
		})
	}

	return params
}

func fallbackParameters() []Parameter {
	return []Parameter{
		{Name: "Age", Spark: series(25, 30, 35, 40, 45), OOC: 2.1, Pass: true},
		{Name: "Income", Spark: series(50000, 55000, 60000, 65000), OOC: 1.5, Pass: true},
	}
}

func series(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func spcOf(values []float64) *SPC {
	doc := &SPC{
		Batch: make([]int, len(values)),
		Value: values,
	}
	if len(values) == 0 {
		return doc
	}

	var sum float64
	for i, v := range values {
		doc.Batch[i] = i + 1
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	sigma := math.Sqrt(sq / float64(len(values)))

	doc.Mean = mean
	doc.UCL = mean + 3*sigma
	doc.LCL = math.Max(0, mean-3*sigma)
	return doc
}

func oocOf(r *validation.Result) *OOCBreakdown {
	doc := &OOCBreakdown{
		Parameter: make([]string, 0, r.Missing.Len()+r.DTypes.Len()),
		OOC:       make([]float64, 0, r.Missing.Len()+r.DTypes.Len()),
	}

	for name := range r.Missing.All() {
		doc.Parameter = append(doc.Parameter, name)
		doc.OOC = append(doc.OOC, 5.0)
	}
	for name := range r.DTypes.All() {
		doc.Parameter = append(doc.Parameter, name)
		doc.OOC = append(doc.OOC, 3.0)
	}

	if len(doc.Parameter) == 0 {
		doc.Parameter = []string{"Age", "Income", "Education"}
		doc.OOC = []float64{0.5, 0.3, 0.2}
	}
	return doc
}
