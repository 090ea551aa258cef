package directive

import "testing"

// S1 from the spec: READ succeeds.
func TestParseCoder_Read(t *testing.T) {
	ds, err := ParseCoder(`READ "notes.txt"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindRead || ds[0].Path != "notes.txt" {
		t.Errorf("READ parsed wrong: %+v", ds[0])
	}
}

// S2 from the spec: CHANGE overwrites own file.
func TestParseCoder_Change(t *testing.T) {
	input := "CHANGE CONTENT=\"\"\"def hello():\n    return 'world'\n\"\"\""
	ds, err := ParseCoder(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := "def hello():\n    return 'world'\n"
	if ds[0].Kind != KindChange || ds[0].Content != want {
		t.Errorf("CHANGE parsed wrong: got %q want %q", ds[0].Content, want)
	}
}

// S3 from the spec: REPLACE with a single FROM/TO pair.
func TestParseCoder_Replace(t *testing.T) {
	ds, err := ParseCoder(`REPLACE FROM="test" TO="replacement"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindReplace || len(ds[0].Replacements) != 1 {
		t.Fatalf("REPLACE parsed wrong: %+v", ds[0])
	}
	if ds[0].Replacements[0].From != "test" || ds[0].Replacements[0].To != "replacement" {
		t.Errorf("REPLACE item wrong: %+v", ds[0].Replacements[0])
	}
}

func TestParseCoder_ReplaceRepeated(t *testing.T) {
	ds, err := ParseCoder(`REPLACE FROM="a" TO="1", FROM="b" TO="2"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(ds[0].Replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(ds[0].Replacements))
	}
}

func TestParseCoder_Insert(t *testing.T) {
	ds, err := ParseCoder(`INSERT FROM="import os" TO="import sys"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindInsert || len(ds[0].Replacements) != 1 {
		t.Fatalf("INSERT parsed wrong: %+v", ds[0])
	}
}

func TestParseCoder_InsertEmptyTo(t *testing.T) {
	ds, err := ParseCoder(`INSERT FROM="marker" TO=""`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Replacements[0].To != "" {
		t.Errorf("expected empty To, got %q", ds[0].Replacements[0].To)
	}
}

// S4 from the spec: RUN rejected is a RUN directive; rejection itself is
// an interpreter concern, not a parse concern — the parser must still
// accept the syntax.
func TestParseCoder_Run(t *testing.T) {
	ds, err := ParseCoder(`RUN "sudo rm -rf /"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindRun || ds[0].Command != "sudo rm -rf /" {
		t.Errorf("RUN parsed wrong: %+v", ds[0])
	}
}

// S5 from the spec: FINISH with a prompt.
func TestParseCoder_Finish(t *testing.T) {
	ds, err := ParseCoder(`FINISH PROMPT="done"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindFinish || ds[0].Prompt != "done" {
		t.Errorf("FINISH parsed wrong: %+v", ds[0])
	}
}

func TestParseCoder_RejectsManagerOnlyDirective(t *testing.T) {
	_, err := ParseCoder(`DELEGATE folder "other" PROMPT="x"`)
	if err == nil {
		t.Fatalf("expected error: DELEGATE is not a coder directive")
	}
}

func TestParseCoder_EscapeSequences(t *testing.T) {
	ds, err := ParseCoder(`READ "tab\there\nnewline\\backslash\qunknown"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := "tab\there\nnewline\\backslash\\qunknown"
	if ds[0].Path != want {
		t.Errorf("escape handling wrong: got %q want %q", ds[0].Path, want)
	}
}
