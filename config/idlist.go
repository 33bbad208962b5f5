package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// IDList is a list of probe ids or path.Match patterns. In YAML it may be
// written either as a sequence or as one comma separated string.
type IDList []string

// ParseIDList splits a comma separated list, dropping blank entries.
func ParseIDList(s string) IDList {
	var out IDList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IDList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = ParseIDList(node.Value)
		return nil
	case yaml.SequenceNode:
		var raw []string
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*l = ParseIDList(strings.Join(raw, ","))
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or a comma separated string", node.Line)
	}
}

// String returns the comma separated form.
func (l IDList) String() string {
	return strings.Join(l, ",")
}
