package validator

// Validator validates a struct and returns an error describing violations.
type Validator interface {
	// Validate checks struct tags on data and returns nil when valid.
	Validate(data any) error
}
