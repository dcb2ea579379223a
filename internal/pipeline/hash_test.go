package pipeline

import "testing"

func TestDocumentID_Consistency(t *testing.T) {
	data := []byte("<p>hello world</p>")
	if DocumentID(data) != DocumentID(data) {
		t.Error("expected identical IDs for identical input")
	}
	if len(DocumentID(data)) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(DocumentID(data)))
	}
}

func TestDocumentID_DifferentInputs(t *testing.T) {
	if DocumentID([]byte("aaa")) == DocumentID([]byte("bbb")) {
		t.Error("expected different IDs for different inputs")
	}
}

func TestDocumentID_EmptyInput(t *testing.T) {
	// BLAKE3 of empty input is well-known.
	want := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := DocumentID(nil); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
