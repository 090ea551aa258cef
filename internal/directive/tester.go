package directive

// testerKeywords is the directive set a Tester (ephemeral) agent may emit:
// READ, RUN, CHANGE, REPLACE, FINISH. Testers have no own-file concept of
// INSERT/SPAWN/WAIT — they act on a scratch pad and report once.
var testerKeywords = map[TokenType]bool{
	TokenREAD:    true,
	TokenRUN:     true,
	TokenCHANGE:  true,
	TokenREPLACE: true,
	TokenFINISH:  true,
}

// ParseTester parses Tester-language directive text into an ordered list
// of Directives, or returns a ParseError.
func ParseTester(text string) ([]Directive, error) {
	return parseDialect(text, testerKeywords)
}
