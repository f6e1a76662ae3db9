package service

import (
	"strings"

	"github.com/google/uuid"
)

// generateInviteCode returns an 8 character lowercase hex code.
func generateInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// generateTaskCode returns a code in the format task-xxxxxx.
func generateTaskCode() string {
	return "task-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
