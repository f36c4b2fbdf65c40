package hardlight

import (
	"strings"
)

const tagName = "hl"

// Tag modifiers
const (
	modMut = "mut" // Mutable access
	modOpt = "opt" // Optional (nil if missing)
	modRes = "res" // Resource injection
)

// FieldKind represents the type of field for injection.
type FieldKind int

const (
	// KindEntity indicates an *Entity field
	KindEntity FieldKind = iota
	// KindManager indicates a *Manager field
	KindManager
	// KindComponent indicates a component field
	KindComponent
	// KindResource indicates a resource field
	KindResource
	// KindPhantomWith indicates a With[T] phantom type
	KindPhantomWith
	// KindPhantomWithout indicates a Without[T] phantom type
	KindPhantomWithout
	// KindPayload indicates a non-injected payload field
	KindPayload
)

// String returns the string representation of FieldKind.
func (k FieldKind) String() string {
	switch k {
	case KindEntity:
		return "Entity"
	case KindManager:
		return "Manager"
	case KindComponent:
		return "Component"
	case KindResource:
		return "Resource"
	case KindPhantomWith:
		return "PhantomWith"
	case KindPhantomWithout:
		return "PhantomWithout"
	case KindPayload:
		return "Payload"
	default:
		return "Unknown"
	}
}

// TagInfo holds parsed tag information.
type TagInfo struct {
	Mutable  bool // hl:"mut"
	Optional bool // hl:"opt"
	Resource bool // hl:"res"
}

// parseTag parses an hl struct tag.
func parseTag(tag string) TagInfo {
	info := TagInfo{}
	if tag == "" {
		return info
	}

	for part := range strings.SplitSeq(tag, ",") {
		switch strings.TrimSpace(part) {
		case modMut:
			info.Mutable = true
		case modOpt:
			info.Optional = true
		case modRes:
			info.Resource = true
		}
	}

	return info
}
