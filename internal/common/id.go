package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRunID generates a unique run ID with the "run_" prefix
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewSessionName builds a browser session name unique per run. Composing it
// from user, site and a timestamp makes collisions across concurrent runs
// for different users structurally impossible.
func NewSessionName(userID, site string) string {
	return fmt.Sprintf("%s|%s|%d", userID, site, time.Now().UnixNano())
}
