package protocol

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ServerMessage is any message the server may push to a client.
type ServerMessage interface {
	Type() MessageType
	serverMessage()
}

// Attachment is a file attached to a chat message.
type Attachment struct {
	ID       string `json:"id"`
	FileKey  string `json:"file_key"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// ChatMessage is the message body delivered by NewMessageEvent.
type ChatMessage struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	ParentID    *string      `json:"parent_id"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	UserID      uuid.UUID    `json:"user_id"`
	Username    string       `json:"username"`
	Attachments []Attachment `json:"attachments"`
}

// MarshalJSON always writes attachments as an array.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type plain ChatMessage
	if m.Attachments == nil {
		m.Attachments = []Attachment{}
	}
	return json.Marshal(plain(m))
}

// Member is one entry of a channel's member list.
type Member struct {
	Username string `json:"username"`
}

// Channel describes the channel a user has just joined.
type Channel struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	IsPrivate   bool      `json:"is_private"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Members     []Member  `json:"members"`
}

func (c Channel) MarshalJSON() ([]byte, error) {
	type plain Channel
	if c.Members == nil {
		c.Members = []Member{}
	}
	return json.Marshal(plain(c))
}

type NewMessageEvent struct {
	ChannelID uuid.UUID   `json:"channelId"`
	Message   ChatMessage `json:"message"`
}

type ChannelJoinEvent struct {
	ChannelID uuid.UUID `json:"channelId"`
	Channel   Channel   `json:"channel"`
}

type ConnectedEvent struct {
	UserID uuid.UUID `json:"userId"`
}

type TypingEvent struct {
	ChannelID uuid.UUID `json:"channelId"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
}

type PresenceEvent struct {
	UserID   uuid.UUID      `json:"userId"`
	Username string         `json:"username"`
	Status   PresenceStatus `json:"status"`
}

type ReactionEvent struct {
	ChannelID uuid.UUID `json:"channelId"`
	MessageID string    `json:"messageId"`
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Emoji     string    `json:"emoji"`
}

type DeleteReactionEvent struct {
	ChannelID  uuid.UUID `json:"channelId"`
	MessageID  string    `json:"messageId"`
	ReactionID string    `json:"reactionId"`
}

// ErrorMessage is the untagged error shape. It carries no `type` on the wire.
type ErrorMessage struct {
	Error string `json:"error"`
}

func (NewMessageEvent) Type() MessageType     { return TypeNewMessage }
func (ChannelJoinEvent) Type() MessageType    { return TypeChannelJoin }
func (ConnectedEvent) Type() MessageType      { return TypeConnected }
func (TypingEvent) Type() MessageType         { return TypeTyping }
func (PresenceEvent) Type() MessageType       { return TypePresence }
func (ReactionEvent) Type() MessageType       { return TypeReaction }
func (DeleteReactionEvent) Type() MessageType { return TypeDeleteReaction }
func (ErrorMessage) Type() MessageType        { return TypeUntagged }

func (NewMessageEvent) serverMessage()     {}
func (ChannelJoinEvent) serverMessage()    {}
func (ConnectedEvent) serverMessage()      {}
func (TypingEvent) serverMessage()         {}
func (PresenceEvent) serverMessage()       {}
func (ReactionEvent) serverMessage()       {}
func (DeleteReactionEvent) serverMessage() {}
func (ErrorMessage) serverMessage()        {}

func (m NewMessageEvent) MarshalJSON() ([]byte, error) {
	type plain NewMessageEvent
	return marshalTagged(m.Type(), plain(m))
}

func (m ChannelJoinEvent) MarshalJSON() ([]byte, error) {
	type plain ChannelJoinEvent
	return marshalTagged(m.Type(), plain(m))
}

func (m ConnectedEvent) MarshalJSON() ([]byte, error) {
	type plain ConnectedEvent
	return marshalTagged(m.Type(), plain(m))
}

func (m TypingEvent) MarshalJSON() ([]byte, error) {
	type plain TypingEvent
	return marshalTagged(m.Type(), plain(m))
}

func (m PresenceEvent) MarshalJSON() ([]byte, error) {
	type plain PresenceEvent
	return marshalTagged(m.Type(), plain(m))
}

func (m ReactionEvent) MarshalJSON() ([]byte, error) {
	type plain ReactionEvent
	return marshalTagged(m.Type(), plain(m))
}

func (m DeleteReactionEvent) MarshalJSON() ([]byte, error) {
	type plain DeleteReactionEvent
	return marshalTagged(m.Type(), plain(m))
}

type attachmentPayload struct {
	ID       *string `json:"id" validate:"required"`
	FileKey  *string `json:"file_key" validate:"required"`
	Filename *string `json:"filename" validate:"required"`
	MimeType *string `json:"mime_type" validate:"required"`
	Size     *int64  `json:"size" validate:"required"`
}

type chatMessagePayload struct {
	ID          *string             `json:"id" validate:"required"`
	Content     *string             `json:"content" validate:"required"`
	ParentID    *string             `json:"parent_id" nullable:"true"`
	CreatedAt   *string             `json:"created_at" validate:"required"`
	UpdatedAt   *string             `json:"updated_at" validate:"required"`
	UserID      *string             `json:"user_id" validate:"required,uuid"`
	Username    *string             `json:"username" validate:"required"`
	Attachments []attachmentPayload `json:"attachments" validate:"dive" default:"[]"`
}

type newMessagePayload struct {
	ChannelID *string             `json:"channelId" validate:"required,uuid"`
	Message   *chatMessagePayload `json:"message" validate:"required"`
}

func (p *newMessagePayload) toMessage() ServerMessage {
	m := p.Message
	attachments := make([]Attachment, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, Attachment{
			ID:       *a.ID,
			FileKey:  *a.FileKey,
			Filename: *a.Filename,
			MimeType: *a.MimeType,
			Size:     *a.Size,
		})
	}
	return NewMessageEvent{
		ChannelID: uuid.MustParse(*p.ChannelID),
		Message: ChatMessage{
			ID:          *m.ID,
			Content:     *m.Content,
			ParentID:    m.ParentID,
			CreatedAt:   *m.CreatedAt,
			UpdatedAt:   *m.UpdatedAt,
			UserID:      uuid.MustParse(*m.UserID),
			Username:    *m.Username,
			Attachments: attachments,
		},
	}
}

type memberPayload struct {
	Username *string `json:"username" validate:"required"`
}

type channelPayload struct {
	ID          *string          `json:"id" validate:"required,uuid"`
	Name        *string          `json:"name" nullable:"true"`
	IsPrivate   *bool            `json:"is_private" validate:"required"`
	WorkspaceID *string          `json:"workspace_id" validate:"required,uuid"`
	CreatedAt   *string          `json:"created_at" validate:"required"`
	UpdatedAt   *string          `json:"updated_at" validate:"required"`
	Members     *[]memberPayload `json:"members" validate:"required,dive"`
}

type channelJoinPayload struct {
	ChannelID *string         `json:"channelId" validate:"required,uuid"`
	Channel   *channelPayload `json:"channel" validate:"required"`
}

func (p *channelJoinPayload) toMessage() ServerMessage {
	c := p.Channel
	members := make([]Member, 0, len(*c.Members))
	for _, m := range *c.Members {
		members = append(members, Member{Username: *m.Username})
	}
	return ChannelJoinEvent{
		ChannelID: uuid.MustParse(*p.ChannelID),
		Channel: Channel{
			ID:          uuid.MustParse(*c.ID),
			Name:        c.Name,
			IsPrivate:   *c.IsPrivate,
			WorkspaceID: uuid.MustParse(*c.WorkspaceID),
			CreatedAt:   *c.CreatedAt,
			UpdatedAt:   *c.UpdatedAt,
			Members:     members,
		},
	}
}

type connectedPayload struct {
	UserID *string `json:"userId" validate:"required,uuid"`
}

func (p *connectedPayload) toMessage() ServerMessage {
	return ConnectedEvent{UserID: uuid.MustParse(*p.UserID)}
}

type typingEventPayload struct {
	ChannelID *string `json:"channelId" validate:"required,uuid"`
	UserID    *string `json:"userId" validate:"required,uuid"`
	Username  *string `json:"username" validate:"required"`
}

func (p *typingEventPayload) toMessage() ServerMessage {
	return TypingEvent{
		ChannelID: uuid.MustParse(*p.ChannelID),
		UserID:    uuid.MustParse(*p.UserID),
		Username:  *p.Username,
	}
}

type presencePayload struct {
	UserID   *string `json:"userId" validate:"required,uuid"`
	Username *string `json:"username" validate:"required"`
	Status   *string `json:"status" validate:"required,oneof=online offline"`
}

func (p *presencePayload) toMessage() ServerMessage {
	return PresenceEvent{
		UserID:   uuid.MustParse(*p.UserID),
		Username: *p.Username,
		Status:   PresenceStatus(*p.Status),
	}
}

type reactionPayload struct {
	ChannelID *string `json:"channelId" validate:"required,uuid"`
	MessageID *string `json:"messageId" validate:"required"`
	ID        *string `json:"id" validate:"required"`
	UserID    *string `json:"userId" validate:"required,uuid"`
	Username  *string `json:"username" validate:"required"`
	Emoji     *string `json:"emoji" validate:"required"`
}

func (p *reactionPayload) toMessage() ServerMessage {
	return ReactionEvent{
		ChannelID: uuid.MustParse(*p.ChannelID),
		MessageID: *p.MessageID,
		ID:        *p.ID,
		UserID:    uuid.MustParse(*p.UserID),
		Username:  *p.Username,
		Emoji:     *p.Emoji,
	}
}

type deleteReactionPayload struct {
	ChannelID  *string `json:"channelId" validate:"required,uuid"`
	MessageID  *string `json:"messageId" validate:"required"`
	ReactionID *string `json:"reactionId" validate:"required"`
}

func (p *deleteReactionPayload) toMessage() ServerMessage {
	return DeleteReactionEvent{
		ChannelID:  uuid.MustParse(*p.ChannelID),
		MessageID:  *p.MessageID,
		ReactionID: *p.ReactionID,
	}
}

type errorPayload struct {
	Error *string `json:"error" validate:"required"`
}

func (p *errorPayload) toMessage() ServerMessage {
	return ErrorMessage{Error: *p.Error}
}
