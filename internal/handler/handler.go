// Package handler exposes the HTTP surface of the API.
package handler

import (
	"time"

	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDateParam accepts RFC3339 timestamps and plain dates.
func parseDateParam(raw, name string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+", expected RFC3339 or YYYY-MM-DD")
}
