package directive

// coderKeywords is the directive set a Coder agent may emit:
// READ, RUN, CHANGE, REPLACE, INSERT, SPAWN, WAIT, FINISH.
var coderKeywords = map[TokenType]bool{
	TokenREAD:    true,
	TokenRUN:     true,
	TokenCHANGE:  true,
	TokenREPLACE: true,
	TokenINSERT:  true,
	TokenSPAWN:   true,
	TokenWAIT:    true,
	TokenFINISH:  true,
}

// ParseCoder parses Coder-language directive text into an ordered list of
// Directives, or returns a ParseError.
func ParseCoder(text string) ([]Directive, error) {
	return parseDialect(text, coderKeywords)
}
