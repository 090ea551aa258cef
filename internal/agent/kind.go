package agent

// Kind distinguishes the three concrete agent variants. The runtime
// expresses Agent as a sum type — Manager | Coder | Tester — through the
// Agent interface plus these concrete structs, rather than a single
// struct with unused fields per variant.
type Kind string

const (
	KindManager Kind = "manager"
	KindCoder   Kind = "coder"
	KindTester  Kind = "tester"
	KindMaster  Kind = "master" // the root Manager, with the Master directive language
)
