package usecase

// Audit entities and actions recorded by the journal.
const (
	EntityAuth = "auth"
	EntityUser = "user"
	EntityTask = "task"

	ActionRegister = "register"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionToggle   = "toggle"
	ActionDelete   = "delete"
)

// AuditTrail records security-relevant events off the request path. Calls are
// fire-and-forget so use cases stay storage-agnostic and never block on it.
type AuditTrail interface {
	Record(actorID, entity, action, ref string)
}
