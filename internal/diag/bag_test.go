package diag

import (
	"testing"

	"cscript/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	sp := source.Span{File: 0, Start: 0, End: 1}

	if !b.Add(NewError(ExhNonExhaustive, sp, "one")) {
		t.Error("Expected first Add to succeed")
	}
	if !b.Add(NewError(ExhNonExhaustive, sp, "two")) {
		t.Error("Expected second Add to succeed")
	}
	if b.Add(NewError(ExhNonExhaustive, sp, "three")) {
		t.Error("Expected third Add to be rejected by the limit")
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{}
	b.Add(NewWarning(DirUnknownDirective, sp, "unknown directive @frobnicate"))
	if b.HasErrors() {
		t.Error("Warnings alone must not count as errors")
	}
	b.Add(NewError(DirBadValue, sp, "bad value"))
	if !b.HasErrors() {
		t.Error("Expected HasErrors after adding an error")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(ExhUnknownEnum, source.Span{File: 0, Start: 40, End: 41}, "late"))
	b.Add(NewError(ExhNonExhaustive, source.Span{File: 0, Start: 10, End: 11}, "early"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "early" || items[1].Message != "late" {
		t.Errorf("Sort order wrong: %q, %q", items[0].Message, items[1].Message)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{File: 0, Start: 5, End: 9}
	b.Add(NewError(ExhNonExhaustive, sp, "missing Blue"))
	b.Add(NewError(ExhNonExhaustive, sp, "missing Blue"))
	b.Dedup()
	if b.Len() != 1 {
		t.Errorf("Len after Dedup = %d, want 1", b.Len())
	}
}

func TestCodeString(t *testing.T) {
	if ExhNonExhaustive.String() != "CSC3001" {
		t.Errorf("Code.String = %q", ExhNonExhaustive.String())
	}
	if ExhNonExhaustive.Description() == "" {
		t.Error("Expected a description for ExhNonExhaustive")
	}
}
