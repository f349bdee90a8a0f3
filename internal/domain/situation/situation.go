package situation

import "strings"

// Situation is the life situation a story or query is about.
type Situation string

// Recognized situations. None means absent.
const (
	None      Situation = ""
	FirstTry  Situation = "first_try"
	Career    Situation = "career"
	Identity  Situation = "identity"
	Uncertain Situation = "uncertain"
)

// All lists the recognized situations in canonical order.
func All() []Situation {
	return []Situation{FirstTry, Career, Identity, Uncertain}
}

// IsValid checks if the situation is one of the recognized values.
func (s Situation) IsValid() bool {
	return s == FirstTry || s == Career || s == Identity || s == Uncertain
}

// IsSet reports whether a situation is present.
func (s Situation) IsSet() bool { return s != None }

// Normalize maps free text to a recognized situation.
// Anything outside the enum (including "null") becomes None.
func Normalize(raw string) Situation {
	s := Situation(strings.ToLower(strings.TrimSpace(raw)))
	if s.IsValid() {
		return s
	}
	return None
}
