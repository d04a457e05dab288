package types

// Keys under which the auth middleware stores values on the gin context.
const (
	ContextUserKey    = "user"
	ContextProjectKey = "project"
)

// Board event types pushed to websocket subscribers of a project.
const (
	EventProjectUpdated = "project.updated"
	EventProjectDeleted = "project.deleted"
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskDeleted    = "task.deleted"
	EventMembersAdded   = "members.added"
	EventMemberRemoved  = "member.removed"
)
