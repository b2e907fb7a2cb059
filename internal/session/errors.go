package session

import "errors"

var (
	// ErrActorPresent is returned when a two-factor step is started while an actor is already set.
	ErrActorPresent = errors.New("two-factor step requires an anonymous session")

	// ErrNoSnapshot is returned by a Persister when nothing has been stored yet.
	ErrNoSnapshot = errors.New("no persisted session")
)
