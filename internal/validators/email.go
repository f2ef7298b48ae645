package validators

import (
	"net/mail"
	"strings"
)

// IsEmailSyntaxValid accepts a bare address (no display name).
func IsEmailSyntaxValid(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}
