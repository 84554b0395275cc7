package logging

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

const (
	sessionFilePrefix = "session_"
	sessionFileSuffix = ".log"
	sessionTimeLayout = "20060102_150405"
)

// GenerateSessionID returns a timestamp plus 4 random hex chars,
// e.g. 20251217_205106_a7b3. IDs sort by start time.
func GenerateSessionID() string {
	random := make([]byte, 2)
	_, _ = rand.Read(random)
	return time.Now().Format(sessionTimeLayout) + "_" + hex.EncodeToString(random)
}

// SessionFilename returns the log file name of a session.
func SessionFilename(sessionID string) string {
	return sessionFilePrefix + sessionID + sessionFileSuffix
}

// ParseSessionFilename is the inverse of SessionFilename.
func ParseSessionFilename(filename string) (sessionID string, ok bool) {
	rest, ok := strings.CutPrefix(filename, sessionFilePrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, sessionFileSuffix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
