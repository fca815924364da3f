package domain

import (
	"fmt"
	"strings"
)

// Credential authorizes one session against the song service. The pair is
// supplied at startup and never mutated.
type Credential struct {
	// Agent is the browser user agent the session presents.
	Agent string
	// Cookie is the cookie header of a logged-in session.
	Cookie string
}

func (c Credential) Validate() error {
	if strings.TrimSpace(c.Agent) == "" {
		return fmt.Errorf("agent is required")
	}
	if strings.TrimSpace(c.Cookie) == "" {
		return fmt.Errorf("cookie is required")
	}

	return nil
}
