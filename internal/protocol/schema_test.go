package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findVariant(t *testing.T, variants []VariantSchema, tag MessageType) VariantSchema {
	t.Helper()
	for _, v := range variants {
		if v.Tag == tag {
			return v
		}
	}
	t.Fatalf("variant %q not described", tag)
	return VariantSchema{}
}

func findField(t *testing.T, fields []FieldSchema, name string) FieldSchema {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not described", name)
	return FieldSchema{}
}

func TestDescribeCoversEveryTag(t *testing.T) {
	doc := Describe()
	require.Len(t, doc.Client, len(ClientTags()))
	require.Len(t, doc.Server, len(ServerTags())+1)

	for i, tag := range ClientTags() {
		assert.Equal(t, tag, doc.Client[i].Tag)
		assert.NotEmpty(t, doc.Client[i].Description)
		typ := findField(t, doc.Client[i].Fields, "type")
		assert.Equal(t, []string{string(tag)}, typ.Enum)
		assert.True(t, typ.Required)
	}

	last := doc.Server[len(doc.Server)-1]
	assert.Equal(t, TypeUntagged, last.Tag)
	assert.Equal(t, "Error event", last.Description)
	require.Len(t, last.Fields, 1)
	assert.Equal(t, FieldSchema{Name: "error", Type: "string", Required: true}, last.Fields[0])
}

func TestDescribeFieldDetails(t *testing.T) {
	server := DescribeDirection(ServerToClient)

	presence := findVariant(t, server, TypePresence)
	status := findField(t, presence.Fields, "status")
	assert.Equal(t, []string{"online", "offline"}, status.Enum)
	assert.Equal(t, "uuid", findField(t, presence.Fields, "userId").Format)

	newMessage := findVariant(t, server, TypeNewMessage)
	body := findField(t, newMessage.Fields, "message")
	assert.Equal(t, "object", body.Type)
	assert.True(t, body.Required)

	parent := findField(t, body.Fields, "parent_id")
	assert.True(t, parent.Nullable)
	assert.True(t, parent.Required)

	attachments := findField(t, body.Fields, "attachments")
	assert.Equal(t, "array", attachments.Type)
	assert.False(t, attachments.Required)
	assert.Equal(t, []any{}, attachments.Default)
	require.NotNil(t, attachments.Items)
	assert.Equal(t, "integer", findField(t, attachments.Items.Fields, "size").Type)

	join := findVariant(t, server, TypeChannelJoin)
	channel := findField(t, join.Fields, "channel")
	assert.True(t, findField(t, channel.Fields, "name").Nullable)
	assert.Equal(t, "boolean", findField(t, channel.Fields, "is_private").Type)
	members := findField(t, channel.Fields, "members")
	assert.True(t, members.Required)
	assert.Equal(t, "string", findField(t, members.Items.Fields, "username").Type)

	reaction := findVariant(t, server, TypeReaction)
	assert.Empty(t, findField(t, reaction.Fields, "id").Format)
	assert.Empty(t, findField(t, reaction.Fields, "messageId").Format)

	client := DescribeDirection(ClientToServer)
	typing := findVariant(t, client, TypeClientTyping)
	assert.Len(t, typing.Fields, 2)
}

func TestDescribeMarshalsAsJSON(t *testing.T) {
	raw, err := json.Marshal(Describe())
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.Server, len(Describe().Server))
	assert.Contains(t, string(raw), `"default":[]`)
}
