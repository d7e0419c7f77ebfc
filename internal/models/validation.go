package model

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError porte le détail des champs refusés d'une requête.
// Il est renvoyé au client en 400 avec le détail par champ.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}
