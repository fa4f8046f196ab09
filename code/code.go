package code

import (
	"math/rand"
	"strings"
)

var letters = strings.Split("0123456789abcdefghijklmnopqrstuvwxyz", "")

const userIDLength = 12

// GenerateUserID returns a fresh opaque identifier for a connecting user.
// Identifiers are never reused for reconnects.
func GenerateUserID() string {
	var b strings.Builder
	b.Grow(userIDLength)
	for i := 0; i < userIDLength; i++ {
		b.WriteString(letters[rand.Intn(len(letters))])
	}
	return b.String()
}
