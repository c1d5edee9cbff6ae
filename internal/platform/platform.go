package platform

import "context"

// Role is a member's standing in a chat as reported by the platform.
type Role string

const (
	RoleCreator       Role = "creator"
	RoleAdministrator Role = "administrator"
	RoleMember        Role = "member"
)

// Gateway abstracts the chat platform calls the bot performs, keeping
// moderation logic testable without network traffic.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, threadID int, text string) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error)
	MemberRole(ctx context.Context, chatID, userID int64) (Role, error)
}
