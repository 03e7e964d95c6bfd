package database

import (
	"encoding/json"
	"time"
)

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleHuman Role = "human"
	RoleBot   Role = "bot"
)

// Label returns the role name as used in prompt context lines.
func (r Role) Label() string {
	switch r {
	case RoleBot:
		return "Bot"
	default:
		return "Human"
	}
}

// Turn represents a single message exchanged with a sender. Turns are
// append-only; they are never updated or deleted by the message pipeline.
type Turn struct {
	ID        uint      `db:"id"`
	Sender    string    `db:"sender"`
	Content   string    `db:"content"`
	Role      Role      `db:"role"`
	Timestamp time.Time `db:"timestamp"`
	CreatedAt time.Time `db:"created_at"`
}

// Line formats the turn as a "Role: message" context line for the
// completion prompt.
func (t Turn) Line() string {
	return t.Role.Label() + ": " + t.Content
}

// Profile holds per-sender metadata, created lazily on first contact.
// Preferences and FavoriteResponses are stored as JSON text.
// ConversationHistory is a reserved column: written once at creation,
// never read. The conversation itself lives in the turns table.
type Profile struct {
	Sender              string    `db:"sender"`
	Preferences         string    `db:"preferences"`
	FavoriteResponses   string    `db:"favorite_responses"`
	ConversationHistory string    `db:"conversation_history"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// PreferenceMap decodes the stored preferences JSON object.
func (p *Profile) PreferenceMap() (map[string]any, error) {
	prefs := make(map[string]any)
	if p.Preferences == "" {
		return prefs, nil
	}
	if err := json.Unmarshal([]byte(p.Preferences), &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Favorites decodes the stored favorite responses JSON array.
func (p *Profile) Favorites() ([]string, error) {
	var favorites []string
	if p.FavoriteResponses == "" {
		return favorites, nil
	}
	if err := json.Unmarshal([]byte(p.FavoriteResponses), &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}
