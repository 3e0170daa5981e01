package types

const (
	// ContextUserKey is the gin context key carrying the resolved identity.
	ContextUserKey = "user"
	// ContextSessionKey is the gin context key carrying the session token.
	ContextSessionKey = "session_token"
)

const (
	NoteStatusPublic  = "public"
	NoteStatusPrivate = "private"
)
