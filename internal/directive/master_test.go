package directive

import "testing"

func TestParseMaster_SecurityDirective(t *testing.T) {
	ds, err := ParseMaster(`SECURITY MODE="paranoid"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindSecurity || ds[0].SecurityMode != "paranoid" {
		t.Errorf("SECURITY parsed wrong: %+v", ds[0])
	}
}

func TestParseMaster_RejectsUnknownMode(t *testing.T) {
	_, err := ParseMaster(`SECURITY MODE="research"`)
	if err == nil {
		t.Fatalf("expected error: research mode is not a supported master security mode")
	}
}

func TestParseMaster_SupportsManagerDirectives(t *testing.T) {
	ds, err := ParseMaster(`DELEGATE folder "backend" PROMPT="build the API"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Kind != KindDelegate {
		t.Errorf("DELEGATE parsed wrong: %+v", ds[0])
	}
}

// S6 from the spec: DELEGATE to an out-of-scope child is a scope error
// raised by the interpreter, not the parser — the directive itself parses.
func TestParseMaster_DelegateParsesRegardlessOfScope(t *testing.T) {
	ds, err := ParseMaster(`DELEGATE folder "other" PROMPT="x"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ds[0].Delegations[0].Target != "other" {
		t.Errorf("target parsed wrong: %+v", ds[0].Delegations[0])
	}
}

func TestParseMaster_RejectsCoderDirective(t *testing.T) {
	_, err := ParseMaster(`CHANGE CONTENT="x"`)
	if err == nil {
		t.Fatalf("expected error: CHANGE is not a master directive")
	}
}
