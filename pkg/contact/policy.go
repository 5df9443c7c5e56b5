package contact

import (
	"github.com/artem13815/contacts/pkg/apperr"
	"github.com/artem13815/contacts/pkg/auth"
)

// Owns reports whether caller is the owner of c.
func Owns(caller auth.Identity, c Contact) bool {
	return c.UserID == caller.UserID
}

// authorize is the single ownership gate every by-id operation passes.
func authorize(op string, caller auth.Identity, c Contact) error {
	if !Owns(caller, c) {
		return apperr.Forbidden(op, "User is not authorized to perform this action")
	}
	return nil
}
