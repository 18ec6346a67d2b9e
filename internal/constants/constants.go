package constants

// ContextKeyUserID is the gin context key holding the authenticated user id.
const ContextKeyUserID = "user_id"
