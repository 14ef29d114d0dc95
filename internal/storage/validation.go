package storage

import "errors"

func requireUser(userID string) error {
	if userID == "" {
		return errors.New("owning user id is required")
	}
	return nil
}
