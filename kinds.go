// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"encoding/json"
	"fmt"
)

// Kind implements enums for standard node types.
// Extension tags that don't map to a standard kind use Custom and
// carry their own name on the node.
type Kind int

const (
	Root Kind = iota
	Left
	Center
	Right
	Justify
	Paragraph
	Numbers // numbered list
	Bullets // bulleted list
	Item
	Text
	LineBreak
	Null
	Group
	Custom
)

var kindNames = [...]string{
	Root:      "Root",
	Left:      "Left",
	Center:    "Center",
	Right:     "Right",
	Justify:   "Justify",
	Paragraph: "Paragraph",
	Numbers:   "Numbers",
	Bullets:   "Bullets",
	Item:      "Item",
	Text:      "Text",
	LineBreak: "LineBreak",
	Null:      "Null",
	Group:     "Group",
	Custom:    "Custom",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the standard kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, s := range kindNames {
		if s == name {
			return Kind(k), true
		}
	}
	return Custom, false
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	kind, ok := ParseKind(name)
	if !ok {
		return fmt.Errorf("unknown kind %q", name)
	}
	*k = kind
	return nil
}
