package protocol

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// payload is the decode target of one variant: a struct of pointers carrying
// validate tags, converted to its typed message once it passes.
type payload[M any] interface {
	toMessage() M
}

type variant[M any] struct {
	tag         MessageType
	description string
	newPayload  func() payload[M]
}

// registry is the closed set of variants for one direction.
type registry[M any] struct {
	direction Direction
	variants  []variant[M]
	byTag     map[MessageType]variant[M]
	// fallback is tried only when the payload has no `type` key at all.
	fallback *variant[M]
}

func newRegistry[M any](dir Direction, fallback *variant[M], variants ...variant[M]) *registry[M] {
	r := &registry[M]{
		direction: dir,
		variants:  variants,
		byTag:     make(map[MessageType]variant[M], len(variants)),
		fallback:  fallback,
	}
	for _, v := range variants {
		if _, dup := r.byTag[v.tag]; dup {
			panic("protocol: duplicate " + string(dir) + " tag " + string(v.tag))
		}
		r.byTag[v.tag] = v
	}
	return r
}

var clientRegistry = newRegistry(ClientToServer, nil,
	variant[ClientMessage]{
		tag:         TypeClientTyping,
		description: "Typing indicator for a channel",
		newPayload:  func() payload[ClientMessage] { return &typingRequestPayload{} },
	},
	variant[ClientMessage]{
		tag:         TypeMarkRead,
		description: "Mark messages as read up to the given message ID",
		newPayload:  func() payload[ClientMessage] { return &markReadPayload{} },
	},
	variant[ClientMessage]{
		tag:         TypeSubscribePresence,
		description: "Subscribe to presence updates for a user",
		newPayload:  func() payload[ClientMessage] { return &subscribePresencePayload{} },
	},
	variant[ClientMessage]{
		tag:         TypeUnsubscribePresence,
		description: "Unsubscribe from presence updates for a user",
		newPayload:  func() payload[ClientMessage] { return &unsubscribePresencePayload{} },
	},
)

var serverRegistry = newRegistry(ServerToClient,
	&variant[ServerMessage]{
		tag:         TypeUntagged,
		description: "Error event",
		newPayload:  func() payload[ServerMessage] { return &errorPayload{} },
	},
	variant[ServerMessage]{
		tag:         TypeNewMessage,
		description: "New message event",
		newPayload:  func() payload[ServerMessage] { return &newMessagePayload{} },
	},
	variant[ServerMessage]{
		tag:         TypeChannelJoin,
		description: "Channel join event",
		newPayload:  func() payload[ServerMessage] { return &channelJoinPayload{} },
	},
	variant[ServerMessage]{
		tag:         TypeConnected,
		description: "Connection successful event",
		newPayload:  func() payload[ServerMessage] { return &connectedPayload{} },
	},
	variant[ServerMessage]{
		tag:         TypeTyping,
		description: "Typing event",
		newPayload:  func() payload[ServerMessage] { return &typingEventPayload{} },
	},
	variant[ServerMessage]{
		tag:         TypePresence,
		description: "User presence event",
		newPayload:  func() payload[ServerMessage] { return &presencePayload{} },
	},
	variant[ServerMessage]{
		tag:         TypeReaction,
		description: "Reaction event",
		newPayload:  func() payload[ServerMessage] { return &reactionPayload{} },
	},
	variant[ServerMessage]{
		tag:         TypeDeleteReaction,
		description: "Reaction deletion event",
		newPayload:  func() payload[ServerMessage] { return &deleteReactionPayload{} },
	},
)

// ValidateClientMessage decodes a payload received from a client. It returns
// a *ValidationError when the payload does not match exactly one client variant.
func ValidateClientMessage(raw []byte) (ClientMessage, error) {
	return clientRegistry.validate(raw)
}

// ValidateServerMessage decodes a payload received from the server. Payloads
// without a `type` key are matched against the untagged error shape.
func ValidateServerMessage(raw []byte) (ServerMessage, error) {
	return serverRegistry.validate(raw)
}

// ValidateClientValue is ValidateClientMessage for already-decoded values such
// as map[string]any.
func ValidateClientValue(v any) (ClientMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, newValidationError(ClientToServer, FieldError{Constraint: "json", Received: err.Error()})
	}
	return ValidateClientMessage(raw)
}

// ValidateServerValue is ValidateServerMessage for already-decoded values.
func ValidateServerValue(v any) (ServerMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, newValidationError(ServerToClient, FieldError{Constraint: "json", Received: err.Error()})
	}
	return ValidateServerMessage(raw)
}

// ClientTags lists the client discriminants in declaration order.
func ClientTags() []MessageType { return clientRegistry.tags() }

// ServerTags lists the tagged server discriminants in declaration order.
func ServerTags() []MessageType { return serverRegistry.tags() }

func (r *registry[M]) tags() []MessageType {
	out := make([]MessageType, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v.tag)
	}
	return out
}

func (r *registry[M]) validate(raw []byte) (M, error) {
	var zero M

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return zero, newValidationError(r.direction, FieldError{Constraint: "type=object", Received: jsonKind(raw)})
	}

	rawTag, ok := fields[tagField]
	if !ok {
		missing := FieldError{Path: tagField, Constraint: "required"}
		if r.fallback == nil {
			return zero, newValidationError(r.direction, missing)
		}
		msg, err := r.decode(fields, r.fallback.newPayload())
		if err != nil {
			verr, _ := AsValidationError(err)
			return zero, newValidationError(r.direction, append([]FieldError{missing}, verr.Fields...)...)
		}
		return msg, nil
	}

	var tag *string
	if err := json.Unmarshal(rawTag, &tag); err != nil || tag == nil {
		return zero, newValidationError(r.direction, FieldError{Path: tagField, Constraint: "type=string", Received: jsonKind(rawTag)})
	}

	v, ok := r.byTag[MessageType(*tag)]
	if !ok {
		return zero, newValidationError(r.direction, FieldError{
			Path:       tagField,
			Constraint: "oneof=" + joinTags(r.tags()),
			Received:   *tag,
		})
	}
	return r.decode(fields, v.newPayload())
}

// decode validates fields against a single variant; there is no retry against
// other variants once a tag has been selected. Constraint failures on fields
// that already failed to decode are not repeated.
func (r *registry[M]) decode(fields map[string]json.RawMessage, p payload[M]) (M, error) {
	var zero M
	errs := decodeObject(fields, reflect.ValueOf(p).Elem(), "")
	if err := validate.Struct(p); err != nil {
		for _, fe := range constraintErrors(err) {
			if !covers(errs, fe.Path) {
				errs = append(errs, fe)
			}
		}
	}
	if len(errs) > 0 {
		return zero, newValidationError(r.direction, errs...)
	}
	return p.toMessage(), nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Replaces the built-in regexp so ids are checked with the same parser
	// that builds uuid.UUID values, case-insensitively.
	if err := v.RegisterValidation("uuid", isCanonicalUUID); err != nil {
		panic(err)
	}
	return v
}

func isCanonicalUUID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func constraintErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Constraint: "valid", Received: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		out = append(out, FieldError{
			Path:       fieldPath(fe.Namespace()),
			Constraint: constraint,
			Received:   derefValue(fe.Value()),
		})
	}
	return out
}

// fieldPath drops the payload struct name that prefixes validator namespaces.
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func derefValue(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}

func joinTags(tags []MessageType) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

// jsonKind names the JSON kind of raw for diagnostics.
func jsonKind(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return "invalid json"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}
