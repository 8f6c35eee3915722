package generation

type PromptOptions struct {
	Instructions string

	// StructuredOutputName and StructuredOutputType request a structured
	// JSON response conforming to the schema reflected from the type.
	StructuredOutputName string
	StructuredOutputType any
}

type PromptOption func(*PromptOptions)

// WithInstructions sets the system instructions for the request.
func WithInstructions(instructions string) PromptOption {
	return func(o *PromptOptions) {
		o.Instructions = instructions
	}
}

// WithStructuredOutput asks the service to respond with JSON conforming to
// the schema reflected from prototype.
func WithStructuredOutput(name string, prototype any) PromptOption {
	return func(o *PromptOptions) {
		o.StructuredOutputName = name
		o.StructuredOutputType = prototype
	}
}
