package directive

// masterKeywords is the Master language: a superset of Manager plus a
// SECURITY directive that only the root (Master) agent may emit, adjusting
// how strictly the command allow-list is enforced.
var masterKeywords = map[TokenType]bool{
	TokenDELEGATE:     true,
	TokenCREATE:       true,
	TokenDELETE:       true,
	TokenREAD:         true,
	TokenSPAWN:        true,
	TokenRUN:          true,
	TokenUPDATEREADME: true,
	TokenWAIT:         true,
	TokenFINISH:       true,
	TokenSECURITY:     true,
}

// ParseMaster parses Master-language directive text into an ordered list
// of Directives, or returns a ParseError.
func ParseMaster(text string) ([]Directive, error) {
	return parseDialect(text, masterKeywords)
}
