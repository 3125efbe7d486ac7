// Package protocol defines the chat wire protocol: the closed set of message
// shapes for each direction and a validating decoder per direction.
package protocol

// MessageType is the value of the `type` discriminant carried by every tagged message.
type MessageType string

// Client -> Server tags.
const (
	TypeClientTyping        MessageType = "typing"
	TypeMarkRead            MessageType = "mark_read"
	TypeSubscribePresence   MessageType = "subscribe_to_presence"
	TypeUnsubscribePresence MessageType = "unsubscribe_from_presence"
)

// Server -> Client tags.
const (
	TypeNewMessage     MessageType = "new_message"
	TypeChannelJoin    MessageType = "channel_join"
	TypeConnected      MessageType = "connected"
	TypeTyping         MessageType = "typing"
	TypePresence       MessageType = "presence"
	TypeReaction       MessageType = "reaction"
	TypeDeleteReaction MessageType = "delete_reaction"

	// TypeUntagged is reported by ErrorMessage, which has no discriminant on the wire.
	TypeUntagged MessageType = ""
)

// Direction names which endpoint originated a payload. Callers pick it from
// the connection they read from, never from the payload shape.
type Direction string

const (
	ClientToServer Direction = "client"
	ServerToClient Direction = "server"
)

// PresenceStatus is the closed set of presence states.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
)

// tagField is the JSON key holding the discriminant.
const tagField = "type"
