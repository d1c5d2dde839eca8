package model

import (
	"encoding/json"
	"fmt"
)

// AttributeType is the closed set of product attribute kinds.
type AttributeType string

const (
	AttributeColor AttributeType = "COLOR"
	AttributeSize  AttributeType = "SIZE"
)

// ParseAttributeType returns the AttributeType named by s.
func ParseAttributeType(s string) (AttributeType, error) {
	t := AttributeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown attribute type %q", s)
	}
	return t, nil
}

// Valid reports whether t is a member of the enumeration.
func (t AttributeType) Valid() bool {
	switch t {
	case AttributeColor, AttributeSize:
		return true
	}
	return false
}

// UnmarshalJSON rejects values outside the enumeration.
func (t *AttributeType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("attribute type: %w", err)
	}
	v, err := ParseAttributeType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
