package domain

import "time"

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// Share is a grant of access to one note for one recipient. The server
// is the authority on uniqueness per (note, recipient); the client
// never edits a share in place, it revokes and shares again.
type Share struct {
	ID         int64      `json:"share_id"`
	NoteID     int64      `json:"note_id"`
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
	SharedAt   time.Time  `json:"shared_at"`
}

type ShareRequest struct {
	Email      string     `json:"email" validate:"required"`
	Permission Permission `json:"permission" validate:"required,oneof=view edit"`
}
