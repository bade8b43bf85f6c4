package model

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either the mode name or its numeric value.
func (c *ChangeMode) UnmarshalYAML(node *yaml.Node) error {
	for _, m := range []ChangeMode{ChangeModeStatic, ChangeModeOnChange, ChangeModeContinuous} {
		if node.Value == m.String() {
			*c = m
			return nil
		}
	}
	n, err := strconv.ParseInt(node.Value, 0, 32)
	if err != nil {
		return fmt.Errorf("line %d: invalid change mode %q", node.Line, node.Value)
	}
	*c = ChangeMode(n)
	return nil
}

// UnmarshalYAML accepts either the access name or its numeric value.
func (a *Access) UnmarshalYAML(node *yaml.Node) error {
	for _, m := range []Access{AccessNone, AccessRead, AccessWrite, AccessReadWrite} {
		if node.Value == m.String() {
			*a = m
			return nil
		}
	}
	n, err := strconv.ParseInt(node.Value, 0, 32)
	if err != nil {
		return fmt.Errorf("line %d: invalid access %q", node.Line, node.Value)
	}
	*a = Access(n)
	return nil
}
