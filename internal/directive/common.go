package directive

import "fmt"

// directiveStarters is the set of token types that may legally begin a
// directive line, across all four dialects. Used to detect "more than one
// directive on a single line".
var directiveStarters = map[TokenType]bool{
	TokenREAD:         true,
	TokenRUN:          true,
	TokenCHANGE:       true,
	TokenREPLACE:      true,
	TokenINSERT:       true,
	TokenSPAWN:        true,
	TokenWAIT:         true,
	TokenFINISH:       true,
	TokenDELEGATE:     true,
	TokenCREATE:       true,
	TokenDELETE:       true,
	TokenUPDATEREADME: true,
	TokenSECURITY:     true,
}

// tokenizeLines lexes text fully and groups tokens into logical lines,
// dropping blank lines. A triple-quoted string's embedded newlines do not
// end a logical line because they never produce a NEWLINE token.
func tokenizeLines(text string) ([][]Token, error) {
	l := newLexer(text)
	var lines [][]Token
	var cur []Token

	for {
		t := l.next()
		if t.Type == TokenIllegal {
			return nil, &ParseError{Line: t.Line, Column: t.Column, Message: fmt.Sprintf("invalid input: %s", t.Literal)}
		}
		if t.Type == TokenEOF {
			if len(cur) > 0 {
				lines = append(lines, cur)
			}
			break
		}
		if t.Type == TokenNewline {
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, t)
	}

	for _, ln := range lines {
		seen := 0
		for _, t := range ln {
			if directiveStarters[t.Type] {
				seen++
			}
		}
		if seen > 1 {
			return nil, &ParseError{Line: ln[0].Line, Message: "multiple directives on one line are not allowed"}
		}
	}

	return lines, nil
}

func parseReadDirective(p *line) (*Directive, error) {
	kw := p.advance() // READ
	d := &Directive{Kind: KindRead, Line: kw.Line}
	if next := p.peek(); next.Type == TokenFILE || next.Type == TokenFOLDER {
		kind, err := p.expectTargetKind()
		if err != nil {
			return nil, err
		}
		d.TargetKind = kind
	} else {
		d.TargetKind = TargetFile
	}
	path, err := p.expectString()
	if err != nil {
		return nil, err
	}
	d.Path = path
	return d, p.requireConsumed()
}

func parseRunDirective(p *line) (*Directive, error) {
	kw := p.advance() // RUN
	cmd, err := p.expectString()
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindRun, Line: kw.Line, Command: cmd}, p.requireConsumed()
}

func parseChangeDirective(p *line) (*Directive, error) {
	kw := p.advance() // CHANGE
	content, err := p.expectKeyString(TokenCONTENT)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindChange, Line: kw.Line, Content: content}, p.requireConsumed()
}

func parseReplaceDirective(p *line) (*Directive, error) {
	kw := p.advance() // REPLACE
	items, err := parseReplaceItems(p)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindReplace, Line: kw.Line, Replacements: items}, p.requireConsumed()
}

func parseInsertDirective(p *line) (*Directive, error) {
	kw := p.advance() // INSERT
	from, err := p.expectKeyString(TokenFROM)
	if err != nil {
		return nil, err
	}
	to, err := p.expectKeyString(TokenTO)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindInsert, Line: kw.Line, Replacements: []ReplaceItem{{From: from, To: to}}}, p.requireConsumed()
}

func parseSpawnDirective(p *line) (*Directive, error) {
	kw := p.advance() // SPAWN
	items, err := parseSpawnItems(p)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindSpawn, Line: kw.Line, Spawns: items}, p.requireConsumed()
}

func parseWaitDirective(p *line) (*Directive, error) {
	kw := p.advance() // WAIT
	return &Directive{Kind: KindWait, Line: kw.Line}, p.requireConsumed()
}

func parseFinishDirective(p *line) (*Directive, error) {
	kw := p.advance() // FINISH
	prompt, err := p.expectKeyString(TokenPROMPT)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindFinish, Line: kw.Line, Prompt: prompt}, p.requireConsumed()
}

func parseDelegateDirective(p *line) (*Directive, error) {
	kw := p.advance() // DELEGATE
	items, err := parseDelegateItems(p)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindDelegate, Line: kw.Line, Delegations: items}, p.requireConsumed()
}

func parseCreateDirective(p *line) (*Directive, error) {
	kw := p.advance() // CREATE
	kind, err := p.expectTargetKind()
	if err != nil {
		return nil, err
	}
	path, err := p.expectString()
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindCreate, Line: kw.Line, TargetKind: kind, Path: path}, p.requireConsumed()
}

func parseDeleteDirective(p *line) (*Directive, error) {
	kw := p.advance() // DELETE
	kind, err := p.expectTargetKind()
	if err != nil {
		return nil, err
	}
	path, err := p.expectString()
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindDelete, Line: kw.Line, TargetKind: kind, Path: path}, p.requireConsumed()
}

func parseUpdateReadmeDirective(p *line) (*Directive, error) {
	kw := p.advance() // UPDATE_README
	content, err := p.expectKeyString(TokenCONTENT)
	if err != nil {
		return nil, err
	}
	return &Directive{Kind: KindUpdateReadme, Line: kw.Line, Content: content}, p.requireConsumed()
}

func parseSecurityDirective(p *line) (*Directive, error) {
	kw := p.advance() // SECURITY
	mode, err := p.expectKeyString(TokenMODE)
	if err != nil {
		return nil, err
	}
	if mode != "default" && mode != "paranoid" {
		return nil, p.err("unknown security mode %q", mode)
	}
	return &Directive{Kind: KindSecurity, Line: kw.Line, SecurityMode: mode}, p.requireConsumed()
}
