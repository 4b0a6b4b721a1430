package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/banshee-data/velocity.report/internal/tuio/graph"
)

const (
	PathAliveAssociations   = "/tuio2/ala"
	PathContainerAssoc      = "/tuio2/coa"
	PathLinkAssoc           = "/tuio2/lnk"
	PathLinkedListAssoc     = "/tuio2/lla"
	PathLinkedTreeAssoc     = "/tuio2/lta"
)

// AliveAssociations carries the unordered set of session ids currently
// participating in at least one association (§3).
type AliveAssociations struct {
	SessionIDs []SessionID
}

func (a *AliveAssociations) Clone() Message {
	return &AliveAssociations{SessionIDs: append([]SessionID(nil), a.SessionIDs...)}
}
func (a *AliveAssociations) String() string {
	ids := append([]SessionID(nil), a.SessionIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s[%s]", PathAliveAssociations, strings.Join(parts, ","))
}
func (a *AliveAssociations) OutputMode() OutputMode { return OutputModeBoth }

// ContainerAssociation groups a slot's worth of session ids as being
// contained within the carrying session id (§3).
type ContainerAssociation struct {
	Session    SessionID
	Slot       int32
	Contained  []SessionID
}

func (c *ContainerAssociation) Clone() Message {
	return &ContainerAssociation{Session: c.Session, Slot: c.Slot, Contained: append([]SessionID(nil), c.Contained...)}
}
func (c *ContainerAssociation) String() string {
	return fmt.Sprintf("%s[sid=%d slot=%d contained=%v]", PathContainerAssoc, c.Session, c.Slot, c.Contained)
}
func (c *ContainerAssociation) OutputMode() OutputMode  { return OutputModeBoth }
func (c *ContainerAssociation) SessionID() SessionID     { return c.Session }
func (c *ContainerAssociation) SetSessionID(id SessionID) { c.Session = id }

// LinkAssociation carries a general DAG of session-id links over the graph
// substrate (§4.3), one node per participating session id.
type LinkAssociation struct {
	Session SessionID
	Graph   *graph.Graph[SessionID, LinkPorts]
}

func NewLinkAssociation(session SessionID) *LinkAssociation {
	return &LinkAssociation{Session: session, Graph: graph.New[SessionID, LinkPorts]()}
}

func (l *LinkAssociation) Clone() Message {
	clone := NewLinkAssociation(l.Session)
	handles := make(map[graph.NodeHandle]graph.NodeHandle)
	for _, h := range l.Graph.Nodes() {
		v, _ := l.Graph.Node(h)
		handles[h] = clone.Graph.CreateNode(v)
	}
	for _, eh := range l.Graph.Edges() {
		v, from, to, _ := l.Graph.Edge(eh)
		clone.Graph.CreateEdge(handles[from], handles[to], v)
	}
	return clone
}
func (l *LinkAssociation) String() string {
	return fmt.Sprintf("%s[sid=%d nodes=%d edges=%d]", PathLinkAssoc, l.Session, len(l.Graph.Nodes()), len(l.Graph.Edges()))
}
func (l *LinkAssociation) OutputMode() OutputMode  { return OutputModeBoth }
func (l *LinkAssociation) SessionID() SessionID     { return l.Session }
func (l *LinkAssociation) SetSessionID(id SessionID) { l.Session = id }

// LinkedListAssociation carries an oriented linear graph of session ids
// (§4.3 IsLinearOriented), optionally marked as describing a physical
// (rather than logical) linkage.
type LinkedListAssociation struct {
	Session  SessionID
	Physical bool
	Graph    *graph.Graph[SessionID, LinkPorts]
}

func NewLinkedListAssociation(session SessionID, physical bool) *LinkedListAssociation {
	return &LinkedListAssociation{Session: session, Physical: physical, Graph: graph.New[SessionID, LinkPorts]()}
}

func (l *LinkedListAssociation) Clone() Message {
	clone := NewLinkedListAssociation(l.Session, l.Physical)
	handles := make(map[graph.NodeHandle]graph.NodeHandle)
	for _, h := range l.Graph.Nodes() {
		v, _ := l.Graph.Node(h)
		handles[h] = clone.Graph.CreateNode(v)
	}
	for _, eh := range l.Graph.Edges() {
		v, from, to, _ := l.Graph.Edge(eh)
		clone.Graph.CreateEdge(handles[from], handles[to], v)
	}
	return clone
}
func (l *LinkedListAssociation) String() string {
	return fmt.Sprintf("%s[sid=%d physical=%v nodes=%d]", PathLinkedListAssoc, l.Session, l.Physical, len(l.Graph.Nodes()))
}
func (l *LinkedListAssociation) OutputMode() OutputMode  { return OutputModeBoth }
func (l *LinkedListAssociation) SessionID() SessionID     { return l.Session }
func (l *LinkedListAssociation) SetSessionID(id SessionID) { l.Session = id }

// LinkedTreeAssociation carries a trunk-tree of session-id links (§4.3
// IsTrunkTree). The wire encoding is ambiguous between "descend" and
// "rollback n steps"; see osc.LTAMode for the strict/lenient resolution
// of that ambiguity (§4.2).
type LinkedTreeAssociation struct {
	Session  SessionID
	Physical bool
	Graph    *graph.Graph[SessionID, LinkPorts]
}

func NewLinkedTreeAssociation(session SessionID, physical bool) *LinkedTreeAssociation {
	return &LinkedTreeAssociation{Session: session, Physical: physical, Graph: graph.New[SessionID, LinkPorts]()}
}

func (l *LinkedTreeAssociation) Clone() Message {
	clone := NewLinkedTreeAssociation(l.Session, l.Physical)
	handles := make(map[graph.NodeHandle]graph.NodeHandle)
	for _, h := range l.Graph.Nodes() {
		v, _ := l.Graph.Node(h)
		handles[h] = clone.Graph.CreateNode(v)
	}
	for _, eh := range l.Graph.Edges() {
		v, from, to, _ := l.Graph.Edge(eh)
		clone.Graph.CreateEdge(handles[from], handles[to], v)
	}
	return clone
}
func (l *LinkedTreeAssociation) String() string {
	return fmt.Sprintf("%s[sid=%d physical=%v nodes=%d]", PathLinkedTreeAssoc, l.Session, l.Physical, len(l.Graph.Nodes()))
}
func (l *LinkedTreeAssociation) OutputMode() OutputMode  { return OutputModeBoth }
func (l *LinkedTreeAssociation) SessionID() SessionID     { return l.Session }
func (l *LinkedTreeAssociation) SetSessionID(id SessionID) { l.Session = id }
