package services

import (
	"errors"
	"testing"
)

func TestExtractText_TXT(t *testing.T) {
	svc := NewFileExtractService()

	text, err := svc.ExtractText("notes.txt", []byte("line one\r\n\r\n\r\nline two\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "line one\n\nline two"
	if text != expected {
		t.Errorf("expected %q, got %q", expected, text)
	}
}

func TestExtractText_EmptyTXT(t *testing.T) {
	svc := NewFileExtractService()

	if _, err := svc.ExtractText("empty.txt", []byte("   \n  \n")); err == nil {
		t.Fatal("expected error for empty text file")
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	svc := NewFileExtractService()

	_, err := svc.ExtractText("slides.pptx", []byte("whatever"))
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestNormalizeExtractedText_CollapsesBlankRuns(t *testing.T) {
	got := normalizeExtractedText("a\n\n\n\nb\n")
	expected := "a\n\nb"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
