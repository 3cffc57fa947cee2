package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNoData            = errors.New("no data")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrDuplicateRecord   = errors.New("duplicate record")
)

// UnknownCategoryError names every requested category that is not a catalog column.
type UnknownCategoryError struct {
	Names []string
}

func (e *UnknownCategoryError) Error() string {
	return "invalid request: unknown category " + quoteJoin(e.Names)
}

func (e *UnknownCategoryError) Is(target error) bool { return target == ErrInvalidRequest }

func quoteJoin(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = `"` + s + `"`
	}
	return strings.Join(q, ", ")
}
