package types

// ContextUserKey is the gin context key the auth middleware stores the
// resolved user under.
const ContextUserKey = "user"
