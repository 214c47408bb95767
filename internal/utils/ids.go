package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

var callIDPattern = regexp.MustCompile(`^vc-[a-f0-9]{12}-[0-9]{6}$`)

// NewCallID derives a call id from the appointment data. Format:
// vc-<first 12 hex of sha256>-<last 6 digits of the unix-millis timestamp>.
func NewCallID(appointmentID, doctorID, patientName string) string {
	ts := time.Now().UnixMilli()
	sum := sha256.Sum256(fmt.Appendf(nil, "%s-%s-%s-%d", appointmentID, doctorID, patientName, ts))
	digest := hex.EncodeToString(sum[:])
	tsStr := fmt.Sprintf("%d", ts)
	return fmt.Sprintf("vc-%s-%s", digest[:12], tsStr[len(tsStr)-6:])
}

// ValidCallID reports whether id matches the issued call-id format.
func ValidCallID(id string) bool { return callIDPattern.MatchString(id) }

// NewParticipantID generates a process-unique participant id for clients that
// did not supply one: unix-millis plus a random hex suffix.
func NewParticipantID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
