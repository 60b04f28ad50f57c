package parser

const (
	// DefaultTrigger is the directive that marks a function for rewriting
	DefaultTrigger = "snapcase:test"

	// TriggerSeparator separates directive path segments
	TriggerSeparator = ":"
)
