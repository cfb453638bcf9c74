package validators

import (
	"net/mail"
	"strings"
)

// IsEmailValid checks shape only; deliverability is the provider's problem.
func IsEmailValid(email string) bool {
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
