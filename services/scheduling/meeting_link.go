package scheduling

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"growthyari/config"
)

// meetingNamespace pins link derivation so the same session always maps to
// the same room token.
var meetingNamespace = uuid.MustParse("7c9a5a3e-4a1d-4f0b-9d3e-2f8c6b1a0e5d")

// MeetingLink derives the session's meeting room URL. The token is a
// name-based UUID over the session id: collision-resistant, deterministic,
// and free of the session id itself.
func MeetingLink(sessionID string) string {
	base := strings.TrimRight(config.AppConfig.MeetingLinkBase, "/")
	if base == "" {
		base = "https://meet.growthyari.com"
	}
	token := uuid.NewSHA1(meetingNamespace, []byte(sessionID))
	return fmt.Sprintf("%s/s/%s", base, token)
}
