package services

import "github.com/google/uuid"

// validID reports whether id is a UUID in the hyphenated 36-character form.
// uuid.Parse also takes urn and braced forms that the uuid columns reject.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
