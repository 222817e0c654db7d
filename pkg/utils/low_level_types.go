package utils

import "fmt"

type XError struct {
	Reason string
	Meta   any
}

func (xe XError) ToError() error {
	if err, ok := xe.Meta.(error); ok {
		return fmt.Errorf("xerror: %v: %w", xe.Reason, err)
	}
	return fmt.Errorf("xerror: %v\nmeta: %v", xe.Reason, xe.Meta)
}
