package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
)

type NodeID string

type ConnectionID string

// NodeKind is the fixed set of node types a flow can contain.
type NodeKind string

const (
	KindTrigger   NodeKind = "trigger"
	KindMessage   NodeKind = "message"
	KindCondition NodeKind = "condition"
	KindAction    NodeKind = "action"
)

// Kinds lists every kind in palette order.
var Kinds = []NodeKind{KindTrigger, KindMessage, KindCondition, KindAction}

func (k NodeKind) Valid() bool {
	switch k {
	case KindTrigger, KindMessage, KindCondition, KindAction:
		return true
	}
	return false
}

// HasInput reports whether the kind exposes an incoming edge handle.
func (k NodeKind) HasInput() bool { return k != KindTrigger }

// HasOutput reports whether the kind exposes an outgoing edge handle.
func (k NodeKind) HasOutput() bool { return k != KindAction }

// Description is the summary line shown under a node's label.
func (k NodeKind) Description() string {
	switch k {
	case KindTrigger:
		return "When a user sends a message..."
	case KindMessage:
		return `Send "Hello World"...`
	case KindCondition:
		return "Check if user is subscribed..."
	case KindAction:
		return "Perform logic..."
	}
	return ""
}

// ParseKind validates a kind name.
func ParseKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown node kind %q", s)
	}
	return k, nil
}

type Node struct {
	ID       NodeID     `json:"id"`
	Kind     NodeKind   `json:"type"`
	Label    string     `json:"label"`
	Position geom.Point `json:"position"`
	// Data is kind-specific and never decoded here.
	Data json.RawMessage `json:"data,omitempty"`
}

type Connection struct {
	ID       ConnectionID `json:"id"`
	SourceID NodeID       `json:"sourceId"`
	TargetID NodeID       `json:"targetId"`
}

// IDSource hands out identifiers for new nodes and connections.
type IDSource interface {
	NextID() string
}

// UUIDSource draws random v4 UUIDs.
type UUIDSource struct{}

func (UUIDSource) NextID() string { return uuid.NewString() }

// SequenceSource yields Prefix+"1", Prefix+"2", ... and is handy in tests.
type SequenceSource struct {
	Prefix string
	n      int
}

func (s *SequenceSource) NextID() string {
	s.n++
	return s.Prefix + strconv.Itoa(s.n)
}
