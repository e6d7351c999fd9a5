package sim

import (
	"time"

	"github.com/google/uuid"
)

// Owner identifies which faction a node belongs to.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
	ownerCount
)

func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the other faction.
func (o Owner) Opponent() Owner {
	if o == OwnerPlayer {
		return OwnerEnemy
	}
	return OwnerPlayer
}

// NodeType categorises nodes by role.
type NodeType uint8

const (
	NodeDefault NodeType = iota
	NodeDropPod
	NodeAmplifier
	NodeFortress
)

func (t NodeType) String() string {
	switch t {
	case NodeDefault:
		return "default"
	case NodeDropPod:
		return "drop-pod"
	case NodeAmplifier:
		return "amplifier"
	case NodeFortress:
		return "fortress"
	default:
		return "unknown"
	}
}

// Node is one network point on the plane. Connections hold neighbour ids of
// the same owner; a listed neighbour may have been removed since the link was
// made, so traversal must skip ids that no longer resolve.
type Node struct {
	ID    string
	Owner Owner
	Type  NodeType
	X, Y  float64

	Power int // line/opacity weighting strength

	Connections       []string // auto-mesh links, symmetric, owner-homogeneous
	DirectConnections []string // explicitly authored links; render weight only

	Isolated      bool
	IsolatedSince time.Time // zero while connected
	CreatedAt     time.Time // presentation only, not authoritative
}

func newNode(x, y float64, owner Owner, typ NodeType, now time.Time) *Node {
	return &Node{
		ID:        uuid.NewString(),
		Owner:     owner,
		Type:      typ,
		X:         x,
		Y:         y,
		Power:     1,
		CreatedAt: now,
	}
}

// IsDropPod reports whether this node is its faction's root.
func (n *Node) IsDropPod() bool {
	return n.Type == NodeDropPod
}

// IsolationImmune nodes never enter the isolated state.
func (n *Node) IsolationImmune() bool {
	return n.Type == NodeDropPod || n.Type == NodeFortress
}

// Radius returns the node's influence radius for the given tuning.
func (n *Node) Radius(cfg *Tuning) float64 {
	switch n.Type {
	case NodeDropPod:
		return cfg.DropPodRadius
	case NodeAmplifier:
		return cfg.AmplifierRadius
	case NodeFortress:
		return cfg.FortressRadius
	default:
		return cfg.NodeRadius
	}
}

// Degree is the node's mesh connection count.
func (n *Node) Degree() int {
	return len(n.Connections)
}

// connectedTo reports whether id is already in the mesh list.
func (n *Node) connectedTo(id string) bool {
	for _, c := range n.Connections {
		if c == id {
			return true
		}
	}
	return false
}

func (n *Node) addConnection(id string) {
	if id == n.ID || n.connectedTo(id) {
		return
	}
	n.Connections = append(n.Connections, id)
}

func (n *Node) removeConnection(id string) {
	for i, c := range n.Connections {
		if c == id {
			n.Connections = append(n.Connections[:i], n.Connections[i+1:]...)
			return
		}
	}
}
