package accounts

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// A short deny-list; real deployments would load a larger one.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwerty123":  {},
	"letmein123": {},
	"iloveyou1":  {},
	"admin123":   {},
	"welcome1":   {},
	"abc12345":   {},
}

// ValidatePassword applies the registration password policy and returns
// every violated rule as a user-facing message.
func ValidatePassword(password, username string) []string {
	var msgs []string
	if len(password) < minPasswordLength {
		msgs = append(msgs, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && allDigits(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		msgs = append(msgs, "This password is too common.")
	}
	if tooSimilar(password, username) {
		msgs = append(msgs, "The password is too similar to the username.")
	}
	return msgs
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(password, username string) bool {
	if username == "" || password == "" {
		return false
	}
	p, u := strings.ToLower(password), strings.ToLower(username)
	return strings.Contains(p, u) || strings.Contains(u, p)
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
