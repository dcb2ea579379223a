package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/htmlpack/internal/analyze"
	"github.com/dgallion1/htmlpack/internal/config"
	"github.com/dgallion1/htmlpack/pkg/vdom"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.DefaultMaxWeight = 1000
	cfg.MaxConcurrentPack = 2
	return NewService(cfg, nil, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestService_Reduce(t *testing.T) {
	s := newTestService(t)
	markup := `<div class="page"><section><h1>Shop</h1><ul><li>1</li><li>2</li><li>3</li><li>4</li><li>5</li></ul></section></div>`

	res, err := s.Reduce(context.Background(), Request{Markup: markup, MaxWeight: 60, Metric: "chars"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fits {
		t.Fatalf("expected fit, got %+v", res)
	}
	if len(res.Output) > 60 || res.Weight != len(res.Output) {
		t.Errorf("output %q has weight %d, reported %d", res.Output, len(res.Output), res.Weight)
	}
	if strings.Contains(res.Output, "class=") || strings.HasPrefix(res.Output, "<div") {
		t.Errorf("expected stripped output, got %q", res.Output)
	}
	if !strings.Contains(res.Output, "[...]") {
		t.Errorf("expected placeholder in %q", res.Output)
	}
	if res.DocID != DocumentID([]byte(markup)) {
		t.Errorf("unexpected doc id %q", res.DocID)
	}
	stats := s.Stats()
	if stats.Count != 1 || stats.FitRate != 1 || stats.WeightRatio.Max >= 1 {
		t.Errorf("expected one reducing fit in stats, got %+v", stats)
	}
}

func TestService_ReduceDefaultsAndNoStrip(t *testing.T) {
	s := newTestService(t)
	res, err := s.Reduce(context.Background(), Request{Markup: `<div class="x">hi</div>`, NoStrip: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output != `<div class="x">hi</div>` {
		t.Errorf("expected markup untouched, got %q", res.Output)
	}
	if res.MaxWeight != 1000 || res.Metric != "chars" || res.Iterations != 0 {
		t.Errorf("unexpected defaults %+v", res)
	}
}

func TestService_ReduceErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Reduce(ctx, Request{Markup: "<div><p></div>"})
	var mismatch *vdom.MismatchedTagError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected MismatchedTagError, got %v", err)
	}

	_, err = s.Reduce(ctx, Request{Markup: "<script>x</script>"})
	if !errors.Is(err, analyze.ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}

	_, err = s.Reduce(ctx, Request{Markup: "<p>x</p>", Metric: "bytes"})
	if err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestService_Strip(t *testing.T) {
	s := newTestService(t)
	nodes, err := s.Strip(context.Background(), `<div><p class="a">one</p></div> <span>two</span>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := vdom.SerializeAll(nodes, vdom.SerializeOptions{}); got != "<p>one</p>two" {
		t.Errorf("unexpected stripped output %q", got)
	}
}

func TestService_ReduceFile(t *testing.T) {
	s := newTestService(t)
	input := "# Notes\n\nFirst paragraph.\n\n## Details\n\n" + strings.Repeat("- item\n", 40)

	res, err := s.ReduceFile(context.Background(), strings.NewReader(input), "notes.md", Request{MaxWeight: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fits || res.Weight > 200 {
		t.Errorf("expected fit within 200, got %+v", res)
	}
	if !strings.HasPrefix(res.Output, "<html>") {
		t.Errorf("expected html root, got %q", res.Output)
	}

	if _, err := s.ReduceFile(context.Background(), strings.NewReader("x"), "a.exe", Request{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestService_Convert(t *testing.T) {
	s := newTestService(t)

	tree, err := s.Convert(strings.NewReader("one\n\ntwo"), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<html><head><title>notes</title></head><body><p>one</p><p>two</p></body></html>"
	if got := vdom.Serialize(tree, vdom.SerializeOptions{}); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if _, err := s.Convert(strings.NewReader("not a zip archive"), "report.docx"); !errors.Is(err, ErrConvert) {
		t.Errorf("expected ErrConvert for a corrupt docx, got %v", err)
	}
	if _, err := s.Convert(strings.NewReader("x"), "a.exe"); err == nil || errors.Is(err, ErrConvert) {
		t.Errorf("expected unsupported-extension error, got %v", err)
	}
}

func TestService_Batch(t *testing.T) {
	s := newTestService(t)
	reqs := []Request{
		{Markup: "<p>one</p>"},
		{Markup: "<p>broken"},
		{Markup: "<ul><li>a</li><li>b</li><li>c</li></ul>", MaxWeight: 25},
	}

	items := s.Batch(context.Background(), reqs)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Index != i {
			t.Errorf("item %d: index %d", i, item.Index)
		}
	}
	if items[0].Result == nil || items[0].Result.Output != "<p>one</p>" {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].Error == "" || items[1].Result != nil {
		t.Errorf("expected second item to fail, got %+v", items[1])
	}
	if items[2].Result == nil || !items[2].Result.Fits {
		t.Errorf("expected third item to fit, got %+v", items[2])
	}
}

func TestService_BatchCancelled(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := make([]Request, 10)
	for i := range reqs {
		reqs[i] = Request{Markup: "<p>x</p>"}
	}
	items := s.Batch(ctx, reqs)
	failed := 0
	for _, item := range items {
		if item.Error == context.Canceled.Error() {
			failed++
		}
	}
	if failed != len(reqs) {
		t.Errorf("expected all %d requests to fail after cancellation, got %d", len(reqs), failed)
	}
}
