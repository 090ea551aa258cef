package directive

import "fmt"

// dispatch maps a leading keyword token type to its shared parse function.
var dispatch = map[TokenType]func(*line) (*Directive, error){
	TokenREAD:         parseReadDirective,
	TokenRUN:          parseRunDirective,
	TokenCHANGE:       parseChangeDirective,
	TokenREPLACE:      parseReplaceDirective,
	TokenINSERT:       parseInsertDirective,
	TokenSPAWN:        parseSpawnDirective,
	TokenWAIT:         parseWaitDirective,
	TokenFINISH:       parseFinishDirective,
	TokenDELEGATE:     parseDelegateDirective,
	TokenCREATE:       parseCreateDirective,
	TokenDELETE:       parseDeleteDirective,
	TokenUPDATEREADME: parseUpdateReadmeDirective,
	TokenSECURITY:     parseSecurityDirective,
}

// parseDialect tokenizes text and parses each logical line into a
// Directive, restricted to the keyword set given in allowed. Any directive
// line whose leading keyword is not in allowed produces a ParseError
// naming the offending keyword.
func parseDialect(text string, allowed map[TokenType]bool) ([]Directive, error) {
	lines, err := tokenizeLines(text)
	if err != nil {
		return nil, err
	}

	var out []Directive
	for _, toks := range lines {
		if len(toks) == 0 {
			continue
		}
		kw := toks[0]
		if !allowed[kw.Type] {
			return nil, &ParseError{Line: kw.Line, Message: fmt.Sprintf("unrecognized directive %q in this context", kw.Literal)}
		}
		fn, ok := dispatch[kw.Type]
		if !ok {
			return nil, &ParseError{Line: kw.Line, Message: fmt.Sprintf("unrecognized directive %q", kw.Literal)}
		}
		p := &line{toks: toks}
		d, err := fn(p)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}
