// Package services contains server-side business logic. Each service
// validates input, talks to the repositories of a RepositoryManager and
// returns errors from the common taxonomy; anything else is logged and
// replaced with common.ErrorInternal.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/logging"
)

// DeleteResult reports the outcome of an idempotent delete.
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

// internal logs errors that are not part of the taxonomy and hides them
// behind common.ErrorInternal.
func internal(ctx context.Context, logger logging.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if !common.IsKnown(err) {
		logger.Error(ctx, op+" failed", "error", err)
	}
	return common.KnownOrInternal(err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorNotFound, fmt.Sprintf(format, args...))
}
