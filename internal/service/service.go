package service

import (
	"github.com/gofrs/uuid/v5"
)

// newID returns a random v4 identifier in canonical form.
func newID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
