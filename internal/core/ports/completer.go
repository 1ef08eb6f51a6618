package ports

import "context"

// SchemaType is the JSON type of a response field.
type SchemaType string

const (
	SchemaString      SchemaType = "string"
	SchemaNumber      SchemaType = "number"
	SchemaStringArray SchemaType = "string_array"
)

// SchemaField declares one property of a structured response.
type SchemaField struct {
	Name        string
	Type        SchemaType
	Description string
	Enum        []string
	Required    bool
}

// CompletionRequest is a single prompt sent to the text completion service.
// When Schema is non-empty the service is asked for a JSON object matching it.
type CompletionRequest struct {
	Prompt            string
	SystemInstruction string
	Schema            []SchemaField
}

// Completer is the external text/JSON completion service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
