package importer

import "fmt"

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RowErrors collects the validation failures of one row.
type RowErrors []FieldError

func (re *RowErrors) add(field, message string) {
	*re = append(*re, FieldError{Field: field, Message: message})
}

// ValidationError rejects a whole import batch. Rows has one slot per input
// row, in input order: nil for valid rows, the field errors otherwise. Nothing
// is persisted when it is returned.
type ValidationError struct {
	Rows []RowErrors `json:"errors"`
}

func (e *ValidationError) Error() string {
	invalid := 0
	for _, row := range e.Rows {
		if row != nil {
			invalid++
		}
	}
	return fmt.Sprintf("validation failed for %d of %d rows", invalid, len(e.Rows))
}
