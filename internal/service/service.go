// Package service implements the business rules of the driving school
// backend on top of the repository layer.
package service

import (
	"database/sql"
	"strings"

	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

// internalError wraps a low level failure as a 500 with a stable message.
func internalError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// loadError maps sql.ErrNoRows to a 404 with the given message, everything
// else to a 500.
func loadError(err error, notFoundMessage string) *appErrors.Error {
	if err == sql.ErrNoRows {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMessage)
	}
	return internalError(err, "failed to load "+strings.TrimSuffix(notFoundMessage, " not found"))
}
