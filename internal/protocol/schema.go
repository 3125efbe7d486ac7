package protocol

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Document is the machine-readable description of every message shape,
// suitable for rendering an interface document.
type Document struct {
	Client []VariantSchema `json:"client" yaml:"client"`
	Server []VariantSchema `json:"server" yaml:"server"`
}

// VariantSchema describes one message shape. Tag is empty for the untagged
// error shape.
type VariantSchema struct {
	Tag         MessageType   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Description string        `json:"description" yaml:"description"`
	Fields      []FieldSchema `json:"fields" yaml:"fields"`
}

// FieldSchema describes one field. Nested objects list their Fields; arrays
// describe their element in Items.
type FieldSchema struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type     string        `json:"type" yaml:"type"`
	Format   string        `json:"format,omitempty" yaml:"format,omitempty"`
	Enum     []string      `json:"enum,omitempty" yaml:"enum,omitempty"`
	Required bool          `json:"required" yaml:"required"`
	Nullable bool          `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Default  any           `json:"default,omitempty" yaml:"default,omitempty"`
	Fields   []FieldSchema `json:"fields,omitempty" yaml:"fields,omitempty"`
	Items    *FieldSchema  `json:"items,omitempty" yaml:"items,omitempty"`
}

// Describe derives the document from the same struct tags the validator
// enforces.
func Describe() Document {
	return Document{
		Client: describeRegistry(clientRegistry),
		Server: describeRegistry(serverRegistry),
	}
}

// DescribeDirection returns the variants of one direction.
func DescribeDirection(dir Direction) []VariantSchema {
	if dir == ClientToServer {
		return describeRegistry(clientRegistry)
	}
	return describeRegistry(serverRegistry)
}

func describeRegistry[M any](r *registry[M]) []VariantSchema {
	out := make([]VariantSchema, 0, len(r.variants)+1)
	for _, v := range r.variants {
		out = append(out, describeVariant(v))
	}
	if r.fallback != nil {
		out = append(out, describeVariant(*r.fallback))
	}
	return out
}

func describeVariant[M any](v variant[M]) VariantSchema {
	var fields []FieldSchema
	if v.tag != TypeUntagged {
		fields = append(fields, FieldSchema{
			Name:     tagField,
			Type:     "string",
			Enum:     []string{string(v.tag)},
			Required: true,
		})
	}
	fields = append(fields, describeStruct(reflect.TypeOf(v.newPayload()).Elem())...)
	return VariantSchema{Tag: v.tag, Description: v.description, Fields: fields}
}

func describeStruct(t reflect.Type) []FieldSchema {
	fields := make([]FieldSchema, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fs := describeType(sf.Type)
		fs.Name = name
		// Nullable keys must still be sent.
		fs.Nullable = sf.Tag.Get("nullable") == "true"
		fs.Required = fs.Nullable
		for _, rule := range strings.Split(sf.Tag.Get("validate"), ",") {
			key, param, _ := strings.Cut(rule, "=")
			switch key {
			case "required":
				fs.Required = true
			case "uuid":
				fs.Format = "uuid"
			case "oneof":
				fs.Enum = strings.Fields(param)
			}
		}
		if def, ok := sf.Tag.Lookup("default"); ok {
			var v any
			if err := json.Unmarshal([]byte(def), &v); err == nil {
				fs.Default = v
			}
		}
		fields = append(fields, fs)
	}
	return fields
}

func describeType(t reflect.Type) FieldSchema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		items := describeType(t.Elem())
		return FieldSchema{Type: "array", Items: &items}
	case reflect.Struct:
		return FieldSchema{Type: "object", Fields: describeStruct(t)}
	default:
		return FieldSchema{Type: jsonTypeName(t)}
	}
}
