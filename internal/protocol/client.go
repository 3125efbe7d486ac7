package protocol

import "github.com/google/uuid"

// ClientMessage is any message a client may send to the server.
type ClientMessage interface {
	Type() MessageType
	clientMessage()
}

// TypingRequest signals that the sender is typing in a channel.
type TypingRequest struct {
	ChannelID uuid.UUID `json:"channelId"`
}

// MarkReadRequest marks messages as read up to MessageID.
type MarkReadRequest struct {
	ChannelID uuid.UUID `json:"channelId"`
	MessageID string    `json:"messageId"`
}

// SubscribePresenceRequest asks for presence updates about UserID.
type SubscribePresenceRequest struct {
	UserID uuid.UUID `json:"userId"`
}

// UnsubscribePresenceRequest stops presence updates about UserID.
type UnsubscribePresenceRequest struct {
	UserID uuid.UUID `json:"userId"`
}

func (TypingRequest) Type() MessageType              { return TypeClientTyping }
func (MarkReadRequest) Type() MessageType            { return TypeMarkRead }
func (SubscribePresenceRequest) Type() MessageType   { return TypeSubscribePresence }
func (UnsubscribePresenceRequest) Type() MessageType { return TypeUnsubscribePresence }

func (TypingRequest) clientMessage()              {}
func (MarkReadRequest) clientMessage()            {}
func (SubscribePresenceRequest) clientMessage()   {}
func (UnsubscribePresenceRequest) clientMessage() {}

func (m TypingRequest) MarshalJSON() ([]byte, error) {
	type plain TypingRequest
	return marshalTagged(m.Type(), plain(m))
}

func (m MarkReadRequest) MarshalJSON() ([]byte, error) {
	type plain MarkReadRequest
	return marshalTagged(m.Type(), plain(m))
}

func (m SubscribePresenceRequest) MarshalJSON() ([]byte, error) {
	type plain SubscribePresenceRequest
	return marshalTagged(m.Type(), plain(m))
}

func (m UnsubscribePresenceRequest) MarshalJSON() ([]byte, error) {
	type plain UnsubscribePresenceRequest
	return marshalTagged(m.Type(), plain(m))
}

// Wire shapes. Pointers distinguish a missing key from an empty value.

type typingRequestPayload struct {
	ChannelID *string `json:"channelId" validate:"required,uuid"`
}

func (p *typingRequestPayload) toMessage() ClientMessage {
	return TypingRequest{ChannelID: uuid.MustParse(*p.ChannelID)}
}

type markReadPayload struct {
	ChannelID *string `json:"channelId" validate:"required,uuid"`
	MessageID *string `json:"messageId" validate:"required"`
}

func (p *markReadPayload) toMessage() ClientMessage {
	return MarkReadRequest{
		ChannelID: uuid.MustParse(*p.ChannelID),
		MessageID: *p.MessageID,
	}
}

type subscribePresencePayload struct {
	UserID *string `json:"userId" validate:"required,uuid"`
}

func (p *subscribePresencePayload) toMessage() ClientMessage {
	return SubscribePresenceRequest{UserID: uuid.MustParse(*p.UserID)}
}

type unsubscribePresencePayload struct {
	UserID *string `json:"userId" validate:"required,uuid"`
}

func (p *unsubscribePresencePayload) toMessage() ClientMessage {
	return UnsubscribePresenceRequest{UserID: uuid.MustParse(*p.UserID)}
}
