package domain

import "strconv"

// Interaction types, as sent by Discord.
const (
	InteractionPing               = 1
	InteractionApplicationCommand = 2
	InteractionMessageComponent   = 3
	InteractionModalSubmit        = 5
)

// Interaction response types.
const (
	ResponsePong           = 1
	ResponseChannelMessage = 4
	ResponseModal          = 9
)

// FlagEphemeral marks a response message as visible only to the invoker.
const FlagEphemeral = 1 << 6

// Component types.
const (
	ComponentActionRow = 1
	ComponentButton    = 2
	ComponentTextInput = 4
)

// ButtonPrimary is the blurple button style.
const ButtonPrimary = 1

// TextInputShort is the single-line text input style.
const TextInputShort = 1

// PermissionAdministrator is the ADMINISTRATOR bit of a member permissions bitfield.
const PermissionAdministrator = 0x8

// Interaction is the inbound interaction envelope delivered to the webhook.
// Only the fields the bot dispatches on are modelled.
type Interaction struct {
	Type    int              `json:"type"`
	GuildID string           `json:"guild_id,omitempty"`
	Member  *Member          `json:"member,omitempty"`
	Data    *InteractionData `json:"data,omitempty"`
}

// Member is the guild member that triggered the interaction.
type Member struct {
	User        User   `json:"user"`
	Permissions string `json:"permissions,omitempty"` // decimal bitfield
}

// User identifies a Discord account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// InteractionData carries the command name, component custom_id, or modal
// fields, depending on the interaction type.
type InteractionData struct {
	Name       string      `json:"name,omitempty"`
	CustomID   string      `json:"custom_id,omitempty"`
	Components []ActionRow `json:"components,omitempty"`
}

// ActionRow is a container row of message or modal components.
type ActionRow struct {
	Type       int         `json:"type"`
	Components []Component `json:"components"`
}

// Component is a button or text input inside an action row.
type Component struct {
	Type        int    `json:"type"`
	CustomID    string `json:"custom_id,omitempty"`
	Label       string `json:"label,omitempty"`
	Style       int    `json:"style,omitempty"`
	Value       string `json:"value,omitempty"`
	MinLength   int    `json:"min_length,omitempty"`
	MaxLength   int    `json:"max_length,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// InteractionResponse is the synchronous structured reply the platform
// requires for every interaction.
type InteractionResponse struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the payload of a message or modal response.
type ResponseData struct {
	Content    string      `json:"content,omitempty"`
	Flags      int         `json:"flags,omitempty"`
	CustomID   string      `json:"custom_id,omitempty"`
	Title      string      `json:"title,omitempty"`
	Components []ActionRow `json:"components,omitempty"`
}

// HasAdministrator reports whether the member's permission bitfield
// includes ADMINISTRATOR. A missing or malformed bitfield counts as no.
func (m *Member) HasAdministrator() bool {
	if m == nil {
		return false
	}
	bits, err := strconv.ParseUint(m.Permissions, 10, 64)
	if err != nil {
		return false
	}
	return bits&PermissionAdministrator != 0
}
