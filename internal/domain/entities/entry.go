package entities

// Entry is one translated message of a context.
type Entry struct {
	Context    string
	Key        string
	Text       string
	Unfinished bool     // translation left as a placeholder by the translator
	Forms      []string // numerus forms when there are several; Text holds the first one
}
