package assessments

import "errors"

var (
	ErrNotFound     = errors.New("assessment not found")
	ErrInvalidInput = errors.New("invalid assessment input")
)
