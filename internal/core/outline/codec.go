package outline

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/inn/internal/core/attention"
)

// itemDoc is the persisted form of an Item: a mapping with exactly one key
// naming the kind.
type itemDoc struct {
	Heading *string            `yaml:"heading,omitempty"`
	Note    *string            `yaml:"note,omitempty"`
	Entry   *string            `yaml:"entry,omitempty"`
	Goal    *Goal              `yaml:"goal,omitempty"`
	Timebox *attention.Timebox `yaml:"timebox,omitempty"`
	Sublist *Context           `yaml:"sublist,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (it Item) MarshalYAML() (any, error) {
	var doc itemDoc
	switch it.Kind {
	case KindHeading:
		doc.Heading = &it.Text
	case KindNote:
		doc.Note = &it.Text
	case KindEntry:
		doc.Entry = &it.Text
	case KindGoal:
		doc.Goal = it.Goal
	case KindTimebox:
		doc.Timebox = it.Timebox
	case KindSublist:
		doc.Sublist = it.Sublist
	default:
		return nil, fmt.Errorf("cannot encode item of kind %q", it.Kind)
	}
	return doc, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Payload fields are decoded
// strictly: a misspelled key is an error rather than a zero value.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: item must be a mapping", node.Line)
	}
	if n := len(node.Content) / 2; n != 1 {
		return fmt.Errorf("line %d: item must have exactly one kind key, found %d", node.Line, n)
	}

	key, payload := node.Content[0].Value, node.Content[1]
	if payload.ShortTag() == "!!null" {
		return fmt.Errorf("line %d: unknown or empty item kind %q", node.Line, key)
	}

	switch Kind(key) {
	case KindHeading, KindNote, KindEntry:
		var text string
		if err := payload.Decode(&text); err != nil {
			return err
		}
		*it = Item{Kind: Kind(key), Text: text}
	case KindGoal:
		var g Goal
		if err := decodeStrict(payload, &g); err != nil {
			return err
		}
		*it = Item{Kind: KindGoal, Goal: &g}
	case KindTimebox:
		var tb attention.Timebox
		if err := decodeStrict(payload, &tb); err != nil {
			return err
		}
		*it = Item{Kind: KindTimebox, Timebox: &tb}
	case KindSublist:
		if err := checkKeys(payload, "name", "items"); err != nil {
			return err
		}
		var c Context
		if err := payload.Decode(&c); err != nil {
			return err
		}
		*it = NewSublist(c)
	default:
		return fmt.Errorf("line %d: unknown or empty item kind %q", node.Line, key)
	}
	return nil
}

// decodeStrict decodes a leaf payload with unknown fields rejected. Node
// Decode does not carry the outer decoder's KnownFields setting, so the
// payload is re-encoded and decoded on its own.
func decodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// checkKeys rejects mapping keys outside allowed.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		k := node.Content[i]
		if !slices.Contains(allowed, k.Value) {
			return fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
		}
	}
	return nil
}
