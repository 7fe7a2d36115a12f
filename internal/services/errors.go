package services

import (
	dataagg "github.com/danfirsten/Standup/internal/data/aggregates"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
)

func invalidInput(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

// readError tags a failed read so callers see not_found rather than internal.
func readError(op string, err error) error {
	return dataagg.MapError(op, err)
}
