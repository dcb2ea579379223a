package ingest

import (
	"fmt"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.txt", "*ingest.TextConverter"},
		{"a.MD", "*ingest.MarkdownConverter"},
		{"a.markdown", "*ingest.MarkdownConverter"},
		{"a.csv", "*ingest.CSVConverter"},
		{"a.html", "*ingest.HTMLConverter"},
		{"a.htm", "*ingest.HTMLConverter"},
		{"a.pdf", "*ingest.PDFConverter"},
		{"a.docx", "*ingest.DOCXConverter"},
	}
	for _, tc := range tests {
		c, err := ForFile(tc.filename)
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tc.filename, err)
		}
		if got := typeName(c); got != tc.want {
			t.Errorf("ForFile(%q): expected %s, got %s", tc.filename, tc.want, got)
		}
	}

	_, err := ForFile("a.exe")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !strings.Contains(err.Error(), ".docx, .htm") {
		t.Errorf("expected supported extensions in %q", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("Report.PDF") {
		t.Error("expected .PDF to be supported")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
	exts := SupportedExtensions()
	if len(exts) != 8 || exts[0] != ".csv" {
		t.Errorf("unexpected extensions %v", exts)
	}
}

func TestPDFPageSections(t *testing.T) {
	sections := pageSections("first page\n\nsecond para\f\f  third page  ")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	got := serialize(sections[0]) + "|" + serialize(sections[1])
	want := "<section><h2>Page 1</h2><p>first page</p><p>second para</p></section>|" +
		"<section><h2>Page 3</h2><p>third page</p></section>"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
