package directive

// managerKeywords is the directive set a Manager agent may emit:
// DELEGATE, CREATE, DELETE, READ, SPAWN, RUN, UPDATE_README, WAIT, FINISH.
var managerKeywords = map[TokenType]bool{
	TokenDELEGATE:     true,
	TokenCREATE:       true,
	TokenDELETE:       true,
	TokenREAD:         true,
	TokenSPAWN:        true,
	TokenRUN:          true,
	TokenUPDATEREADME: true,
	TokenWAIT:         true,
	TokenFINISH:       true,
}

// ParseManager parses Manager-language directive text into an ordered list
// of Directives, or returns a ParseError.
func ParseManager(text string) ([]Directive, error) {
	return parseDialect(text, managerKeywords)
}
