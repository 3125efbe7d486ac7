package command

import (
	"encoding/json"
	"fmt"

	"chatwire/internal/protocol"

	"github.com/goccy/go-yaml"
)

// Render encodes the schema document, or one direction of it, in format.
func Render(format, direction string) ([]byte, error) {
	var doc any
	switch direction {
	case "all", "":
		doc = protocol.Describe()
	case string(protocol.ClientToServer):
		doc = protocol.DescribeDirection(protocol.ClientToServer)
	case string(protocol.ServerToClient):
		doc = protocol.DescribeDirection(protocol.ServerToClient)
	default:
		return nil, fmt.Errorf("unknown direction %q (want client, server or all)", direction)
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
