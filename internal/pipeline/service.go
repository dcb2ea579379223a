package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dgallion1/htmlpack/internal/analyze"
	"github.com/dgallion1/htmlpack/internal/config"
	"github.com/dgallion1/htmlpack/internal/ingest"
	"github.com/dgallion1/htmlpack/internal/metrics"
	"github.com/dgallion1/htmlpack/pkg/pack"
	"github.com/dgallion1/htmlpack/pkg/strip"
	"github.com/dgallion1/htmlpack/pkg/vdom"
	"github.com/dgallion1/htmlpack/pkg/weight"
)

const tracerName = "github.com/dgallion1/htmlpack/internal/pipeline"

// ErrConvert wraps failures to convert an uploaded file into a tree.
var ErrConvert = errors.New("convert document")

// Operation names used in logs, spans and metrics.
const (
	OpParse  = "parse"
	OpStrip  = "strip"
	OpPack   = "pack"
	OpIngest = "ingest"
)

// Request describes one reduction.
type Request struct {
	Markup    string `json:"markup"`
	MaxWeight int    `json:"max_weight,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Pretty    bool   `json:"pretty,omitempty"`
	NoStrip   bool   `json:"no_strip,omitempty"`
}

// Result is the outcome of a reduction.
type Result struct {
	DocID        string `json:"doc_id"`
	Output       string `json:"output"`
	Metric       string `json:"metric"`
	MaxWeight    int    `json:"max_weight"`
	InputWeight  int    `json:"input_weight"`
	Weight       int    `json:"weight"`
	Fits         bool   `json:"fits"`
	Iterations   int    `json:"iterations"`
	DepthSnips   int    `json:"depth_snips"`
	BreadthSnips int    `json:"breadth_snips"`
	DurationMs   int64  `json:"duration_ms"`
}

// Service runs documents through parse, strip, root selection and pack.
type Service struct {
	log     *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	stats   *OutcomeWindow

	defaultMetric    string
	defaultMaxWeight int
	tokenEncoding    string
	maxConcurrent    int
	pdfFallback      bool

	mu         sync.Mutex
	metricsFor map[string]weight.Metric
}

// NewService creates a Service. A nil m gets collectors on a private
// registry.
func NewService(cfg config.Config, m *metrics.Metrics, log *slog.Logger) *Service {
	if m == nil {
		m = metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	}
	maxConcurrent := cfg.MaxConcurrentPack
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Service{
		log:              log,
		metrics:          m,
		tracer:           otel.Tracer(tracerName),
		stats:            NewOutcomeWindow(cfg.StatsWindow),
		defaultMetric:    cfg.DefaultMetric,
		defaultMaxWeight: cfg.DefaultMaxWeight,
		tokenEncoding:    cfg.TokenEncoding,
		maxConcurrent:    maxConcurrent,
		pdfFallback:      cfg.PDFFallbackPdftotext,
		metricsFor:       make(map[string]weight.Metric),
	}
}

// Stats aggregates the reductions of the rolling window.
func (s *Service) Stats() OutcomeSnapshot {
	return s.stats.Snapshot()
}

// Metric returns the named metric, loading it once.
func (s *Service) Metric(name string) (weight.Metric, error) {
	if name == "" {
		name = s.defaultMetric
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.metricsFor[name]; ok {
		return m, nil
	}
	m, err := weight.ForName(name, s.tokenEncoding)
	if err != nil {
		return nil, err
	}
	s.metricsFor[name] = m
	return m, nil
}

// Parse reads markup into its top-level nodes.
func (s *Service) Parse(ctx context.Context, markup string) ([]*vdom.Node, error) {
	_, span := s.tracer.Start(ctx, "htmlpack.parse")
	defer span.End()

	start := time.Now()
	nodes, err := vdom.ParseFragment(markup)
	s.metrics.ObserveReduction(OpParse, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	span.SetAttributes(attribute.Int("htmlpack.nodes", len(nodes)))
	return nodes, nil
}

// Strip parses markup and returns its stripped top-level nodes.
func (s *Service) Strip(ctx context.Context, markup string) ([]*vdom.Node, error) {
	ctx, span := s.tracer.Start(ctx, "htmlpack.strip")
	defer span.End()

	nodes, err := s.Parse(ctx, markup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	start := time.Now()
	stripped := stripAll(nodes)
	s.metrics.ObserveReduction(OpStrip, nil, time.Since(start))
	return stripped, nil
}

// Reduce packs markup into the requested budget.
func (s *Service) Reduce(ctx context.Context, req Request) (*Result, error) {
	docID := DocumentID([]byte(req.Markup))
	ctx, span := s.tracer.Start(ctx, "htmlpack.reduce", trace.WithAttributes(
		attribute.String("htmlpack.doc_id", docID),
	))
	defer span.End()

	nodes, err := s.Parse(ctx, req.Markup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveReduction(OpPack, err, 0)
		return nil, err
	}
	res, err := s.reduceNodes(span, OpPack, docID, nodes, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

// ReduceFile converts an uploaded file and packs it into the requested
// budget. req.Markup is ignored.
func (s *Service) ReduceFile(ctx context.Context, r io.Reader, filename string, req Request) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	docID := DocumentID(data)
	_, span := s.tracer.Start(ctx, "htmlpack.ingest", trace.WithAttributes(
		attribute.String("htmlpack.doc_id", docID),
		attribute.String("htmlpack.filename", filename),
	))
	defer span.End()

	fail := func(err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveReduction(OpIngest, err, 0)
		return nil, err
	}

	tree, err := s.Convert(bytes.NewReader(data), filename)
	if err != nil {
		return fail(err)
	}

	res, err := s.reduceNodes(span, OpIngest, docID, []*vdom.Node{tree}, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

// Convert turns a file into a document tree with the converter for its
// extension. Converter failures wrap ErrConvert.
func (s *Service) Convert(r io.Reader, filename string) (*vdom.Node, error) {
	conv, err := ingest.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pdf, ok := conv.(*ingest.PDFConverter); ok {
		pdf.FallbackPdftotext = s.pdfFallback
	}
	tree, err := conv.Convert(r, filename)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrConvert, filename, err)
	}
	return tree, nil
}

func (s *Service) reduceNodes(span trace.Span, op, docID string, nodes []*vdom.Node, req Request) (*Result, error) {
	log := s.log.With("op", op, "doc_id", docID)
	defer s.metrics.Begin()()
	start := time.Now()

	metric, err := s.Metric(req.Metric)
	if err != nil {
		s.metrics.ObserveReduction(op, err, time.Since(start))
		return nil, err
	}
	maxWeight := req.MaxWeight
	if maxWeight <= 0 {
		maxWeight = s.defaultMaxWeight
	}

	if !req.NoStrip {
		nodes = stripAll(nodes)
	}
	root, err := analyze.SelectRoot(nodes)
	if err != nil {
		s.metrics.ObserveReduction(op, err, time.Since(start))
		log.Warn("nothing to pack", "error", err)
		return nil, err
	}

	packed := pack.Run(pack.Request{
		Root:      root,
		Weight:    weight.Tree(metric),
		MaxWeight: maxWeight,
	})
	elapsed := time.Since(start)
	s.metrics.ObserveReduction(op, nil, elapsed)
	s.metrics.ObservePack(packed)
	s.stats.Add(Outcome{
		Duration:    elapsed,
		InputWeight: packed.InputWeight,
		Weight:      packed.Weight,
		Fits:        packed.Fits,
		Iterations:  packed.Iterations,
	})

	span.SetAttributes(
		attribute.String("htmlpack.metric", metric.Name()),
		attribute.Int("htmlpack.max_weight", maxWeight),
		attribute.Int("htmlpack.input_weight", packed.InputWeight),
		attribute.Int("htmlpack.weight", packed.Weight),
		attribute.Int("htmlpack.iterations", packed.Iterations),
		attribute.Bool("htmlpack.fits", packed.Fits),
	)

	if packed.Fits {
		log.Info("packed document",
			"metric", metric.Name(), "max_weight", maxWeight,
			"input_weight", packed.InputWeight, "weight", packed.Weight,
			"iterations", packed.Iterations, "duration_ms", elapsed.Milliseconds())
	} else {
		log.Warn("document exceeds budget after packing",
			"metric", metric.Name(), "max_weight", maxWeight,
			"input_weight", packed.InputWeight, "weight", packed.Weight)
	}

	return &Result{
		DocID:        docID,
		Output:       vdom.Serialize(packed.Root, vdom.SerializeOptions{Pretty: req.Pretty}),
		Metric:       metric.Name(),
		MaxWeight:    maxWeight,
		InputWeight:  packed.InputWeight,
		Weight:       packed.Weight,
		Fits:         packed.Fits,
		Iterations:   packed.Iterations,
		DepthSnips:   packed.DepthSnips,
		BreadthSnips: packed.BreadthSnips,
		DurationMs:   elapsed.Milliseconds(),
	}, nil
}

func stripAll(nodes []*vdom.Node) []*vdom.Node {
	var out []*vdom.Node
	for _, n := range nodes {
		out = append(out, strip.Strip(n)...)
	}
	return out
}
