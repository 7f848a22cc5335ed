package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Contact is the delivery information resolved for a task owner.
type Contact struct {
	OwnerID uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
}

// Usable reports whether the contact carries an address a digest can be sent to.
func (c Contact) Usable() bool {
	return strings.TrimSpace(c.Email) != ""
}

// DisplayName returns the contact's name, falling back to the local part of
// the email address when no name is known.
func (c Contact) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(c.Email, "@")
	return local
}
