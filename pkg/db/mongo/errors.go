package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsUnavailable reports whether err indicates the store itself could not
// be reached, as opposed to a logical failure of the operation. Callers
// surface these as SERVICE_UNAVAILABLE and may retry idempotent reads.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
