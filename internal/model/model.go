package model

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller did not supply one.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
