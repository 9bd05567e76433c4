package domain

// Role is the speaker of a chat turn.
type Role string

// Chat roles sent to the generation provider.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Turn is one role/content message of a chat request.
type Turn struct {
	Role    Role
	Content string
}
