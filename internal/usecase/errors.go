package usecase

import (
	"errors"

	"github.com/riskibarqy/afl-stats/internal/domain/query"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrInvalidQuery          = query.ErrInvalidQuery
)
