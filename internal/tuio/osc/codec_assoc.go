package osc

import (
	"fmt"
	"strings"

	"github.com/banshee-data/velocity.report/internal/tuio/graph"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func (c *Codec) registerAssociations() {
	c.Register(model.PathAliveAssociations, func(tags string, args []interface{}) ([]model.Message, error) {
		for _, t := range tags {
			if t != 'i' {
				return nil, fmt.Errorf("alive_associations: expected all-int tags, got %q", tags)
			}
		}
		ids := make([]model.SessionID, len(args))
		for i := range args {
			ids[i] = model.SessionID(asInt(args, i))
		}
		return []model.Message{&model.AliveAssociations{SessionIDs: ids}}, nil
	})

	c.Register(model.PathContainerAssoc, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) < 2 || tags[0] != 'i' || tags[1] != 'i' {
			return nil, fmt.Errorf("container_association: malformed tags %q", tags)
		}
		for _, t := range tags[2:] {
			if t != 'i' {
				return nil, fmt.Errorf("container_association: expected all-int tail, got %q", tags)
			}
		}
		contained := make([]model.SessionID, len(args)-2)
		for i := 2; i < len(args); i++ {
			contained[i-2] = model.SessionID(asInt(args, i))
		}
		return []model.Message{&model.ContainerAssociation{
			Session:   model.SessionID(asInt(args, 0)),
			Slot:      asInt(args, 1),
			Contained: contained,
		}}, nil
	})

	c.Register(model.PathLinkAssoc, func(tags string, args []interface{}) ([]model.Message, error) {
		sid, nodes, edges, err := decodeEdgeListGraph(tags, args, 1)
		if err != nil {
			return nil, fmt.Errorf("link_association: %w", err)
		}
		la := model.NewLinkAssociation(model.SessionID(sid))
		populateEdgeListGraph(la.Graph, nodes, edges)
		return []model.Message{la}, nil
	})

	c.Register(model.PathLinkedListAssoc, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) < 2 || tags[0] != 'i' || (tags[1] != 'T' && tags[1] != 'F') {
			return nil, fmt.Errorf("linked_list_association: malformed header in tags %q", tags)
		}
		physical := tags[1] == 'T'
		sid, nodes, edges, err := decodeEdgeListGraph(tags, args, 2)
		if err != nil {
			return nil, fmt.Errorf("linked_list_association: %w", err)
		}
		lla := model.NewLinkedListAssociation(model.SessionID(sid), physical)
		populateEdgeListGraph(lla.Graph, nodes, edges)
		return []model.Message{lla}, nil
	})

	c.Register(model.PathLinkedTreeAssoc, func(tags string, args []interface{}) ([]model.Message, error) {
		if c.ltaMode == LTAStrict {
			return nil, fmt.Errorf("linked_tree_association: strict mode cannot disambiguate the wire encoding, rejecting")
		}
		if len(tags) < 2 || tags[0] != 'i' || (tags[1] != 'T' && tags[1] != 'F') {
			return nil, fmt.Errorf("linked_tree_association: malformed header in tags %q", tags)
		}
		physical := tags[1] == 'T'
		sid := model.SessionID(asInt(args, 0))
		session, argIdx, err := decodeTrunkTreeWalk(tags, args, 2, 2)
		if err != nil {
			return nil, fmt.Errorf("linked_tree_association: %w", err)
		}
		_ = argIdx
		lta := model.NewLinkedTreeAssociation(sid, physical)
		buildTrunkTreeGraph(lta.Graph, session)
		return []model.Message{lta}, nil
	})
}

// edgeListGraph is a flat, order-independent node/edge list encoding shared
// by link and linked-list associations: a leading session id, a node count
// and that many node session ids, then an edge count and that many
// (from, to, packed link-ports) triples.
type edgeListNode = model.SessionID

type edgeListEdge struct {
	from, to model.SessionID
	ports    model.LinkPorts
}

func decodeEdgeListGraph(tags string, args []interface{}, start int) (sid int32, nodes []edgeListNode, edges []edgeListEdge, err error) {
	if len(tags) < start {
		return 0, nil, nil, fmt.Errorf("truncated header")
	}
	sid = asInt(args, 0)
	i, argIdx := start, start
	if i >= len(tags) || tags[i] != 'i' {
		return 0, nil, nil, fmt.Errorf("expected node count at tag %d", i)
	}
	nodeCount := int(asInt(args, argIdx))
	i++
	argIdx++
	nodes = make([]edgeListNode, nodeCount)
	for k := 0; k < nodeCount; k++ {
		if i >= len(tags) || tags[i] != 'i' {
			return 0, nil, nil, fmt.Errorf("truncated node list")
		}
		nodes[k] = model.SessionID(asInt(args, argIdx))
		i++
		argIdx++
	}
	if i >= len(tags) || tags[i] != 'i' {
		return 0, nil, nil, fmt.Errorf("expected edge count at tag %d", i)
	}
	edgeCount := int(asInt(args, argIdx))
	i++
	argIdx++
	edges = make([]edgeListEdge, edgeCount)
	for k := 0; k < edgeCount; k++ {
		if i+2 >= len(tags) || tags[i] != 'i' || tags[i+1] != 'i' || tags[i+2] != 'i' {
			return 0, nil, nil, fmt.Errorf("truncated edge list")
		}
		edges[k] = edgeListEdge{
			from:  model.SessionID(asInt(args, argIdx)),
			to:    model.SessionID(asInt(args, argIdx+1)),
			ports: model.LinkPorts(uint32(asInt(args, argIdx+2))),
		}
		i += 3
		argIdx += 3
	}
	return sid, nodes, edges, nil
}

func populateEdgeListGraph(g *graph.Graph[model.SessionID, model.LinkPorts], nodes []edgeListNode, edges []edgeListEdge) {
	handles := make(map[model.SessionID]graph.NodeHandle, len(nodes))
	for _, n := range nodes {
		handles[n] = g.CreateNode(n)
	}
	for _, e := range edges {
		from, ok1 := handles[e.from]
		to, ok2 := handles[e.to]
		if !ok1 || !ok2 {
			continue
		}
		g.CreateEdge(from, to, e.ports)
	}
}

func encodeEdgeListGraph(tags *strings.Builder, args *[]interface{}, g *graph.Graph[model.SessionID, model.LinkPorts]) {
	nodeHandles := g.Nodes()
	tags.WriteByte('i')
	*args = append(*args, int32(len(nodeHandles)))
	for _, h := range nodeHandles {
		v, _ := g.Node(h)
		tags.WriteByte('i')
		*args = append(*args, int32(v))
	}
	edgeHandles := g.Edges()
	tags.WriteByte('i')
	*args = append(*args, int32(len(edgeHandles)))
	for _, eh := range edgeHandles {
		ports, from, to, _ := g.Edge(eh)
		fromSID, _ := g.Node(from)
		toSID, _ := g.Node(to)
		tags.WriteString("iii")
		*args = append(*args, int32(fromSID), int32(toSID), int32(uint32(ports)))
	}
}

// trunkTreeSession is a parsed, not-yet-materialized linked-tree walk: a
// preorder sequence of (session id) descend steps and rollback counts,
// mirroring the skeleton message's descend/rollback encoding (§4.2, §4.3).
type trunkTreeSession struct {
	steps []trunkTreeStep
}

type trunkTreeStep struct {
	sid      model.SessionID
	rollback int
}

// decodeTrunkTreeWalk parses a preorder descend/rollback sequence: a 'T'
// marker followed by one session id means "create a child of the current
// node and descend into it"; an 'F' marker followed by one int means "back
// out that many levels before the next descend" (§4.2, §4.3). Link ports
// are not carried on the tree walk — see LinkAssociation for general
// port-addressed links.
func decodeTrunkTreeWalk(tags string, args []interface{}, tagStart, argStart int) (trunkTreeSession, int, error) {
	var session trunkTreeSession
	i, argIdx := tagStart, argStart
	for i < len(tags) {
		switch tags[i] {
		case 'T':
			i++
			argIdx++
			if i >= len(tags) || tags[i] != 'i' {
				return session, 0, fmt.Errorf("expected session id after descend marker")
			}
			session.steps = append(session.steps, trunkTreeStep{sid: model.SessionID(asInt(args, argIdx))})
			i++
			argIdx++
		case 'F':
			i++
			argIdx++
			if i >= len(tags) || tags[i] != 'i' {
				return session, 0, fmt.Errorf("expected rollback count after rollback marker")
			}
			session.steps = append(session.steps, trunkTreeStep{rollback: int(asInt(args, argIdx))})
			i++
			argIdx++
		default:
			return session, 0, fmt.Errorf("unexpected trunk-tree marker %q", tags[i])
		}
	}
	return session, argIdx, nil
}

func buildTrunkTreeGraph(g *graph.Graph[model.SessionID, model.LinkPorts], session trunkTreeSession) {
	var stack []graph.NodeHandle
	for _, step := range session.steps {
		if step.rollback > 0 {
			n := step.rollback
			if n > len(stack) {
				n = len(stack)
			}
			stack = stack[:len(stack)-n]
			continue
		}
		h := g.CreateNode(step.sid)
		if len(stack) > 0 {
			g.CreateEdge(stack[len(stack)-1], h, model.LinkPorts(0))
		}
		stack = append(stack, h)
	}
}

// encodeTrunkTreeWalk walks a well-formed trunk tree depth-first, writing a
// 'T'+session-id marker on each descend and an 'F'+count marker whenever a
// sibling subtree requires backing out of the previous one first. The
// rollback count is the number of levels the previous sibling's subtree
// descended below the current node, not a fixed 1: a deep subtree followed
// by a shallow sibling must back out more than one level.
func encodeTrunkTreeWalk(tags *strings.Builder, args *[]interface{}, g *graph.Graph[model.SessionID, model.LinkPorts]) error {
	root, err := g.GetOriginLeaf()
	if err != nil {
		return err
	}
	var walk func(h graph.NodeHandle, depth int) int
	walk = func(h graph.NodeHandle, depth int) int {
		sid, _ := g.Node(h)
		tags.WriteByte('T')
		tags.WriteByte('i')
		*args = append(*args, true, int32(sid))
		exitDepth := depth
		for i, eh := range g.OutEdges(h) {
			if i > 0 {
				tags.WriteString("Fi")
				*args = append(*args, false, int32(exitDepth-depth))
			}
			_, _, to, _ := g.Edge(eh)
			exitDepth = walk(to, depth+1)
		}
		return exitDepth
	}
	walk(root, 0)
	return nil
}

func imprintAliveAssociations(msgs *[]Msg, a *model.AliveAssociations) {
	tags := strings.Repeat("i", len(a.SessionIDs))
	args := make([]interface{}, len(a.SessionIDs))
	for i, id := range a.SessionIDs {
		args[i] = int32(id)
	}
	*msgs = append(*msgs, Msg{Path: model.PathAliveAssociations, Tags: tags, Args: args})
}

func imprintContainerAssociation(msgs *[]Msg, ca *model.ContainerAssociation) {
	tags := "ii" + strings.Repeat("i", len(ca.Contained))
	args := make([]interface{}, 0, 2+len(ca.Contained))
	args = append(args, int32(ca.Session), ca.Slot)
	for _, id := range ca.Contained {
		args = append(args, int32(id))
	}
	*msgs = append(*msgs, Msg{Path: model.PathContainerAssoc, Tags: tags, Args: args})
}

func imprintLinkAssociation(msgs *[]Msg, la *model.LinkAssociation) {
	var tags strings.Builder
	tags.WriteByte('i')
	args := []interface{}{int32(la.Session)}
	encodeEdgeListGraph(&tags, &args, la.Graph)
	*msgs = append(*msgs, Msg{Path: model.PathLinkAssoc, Tags: tags.String(), Args: args})
}

func imprintLinkedListAssociation(msgs *[]Msg, lla *model.LinkedListAssociation) {
	var tags strings.Builder
	tags.WriteByte('i')
	marker := byte('F')
	if lla.Physical {
		marker = 'T'
	}
	tags.WriteByte(marker)
	args := []interface{}{int32(lla.Session), lla.Physical}
	encodeEdgeListGraph(&tags, &args, lla.Graph)
	*msgs = append(*msgs, Msg{Path: model.PathLinkedListAssoc, Tags: tags.String(), Args: args})
}

// imprintLinkedTreeAssociation resolves the §4.2 LTA wire ambiguity: strict
// mode refuses to emit (the descend/rollback sequence cannot be
// disambiguated by a strict reader), lenient mode writes the boolean
// marker per step that this codec's own decoder requires.
func (c *Codec) imprintLinkedTreeAssociation(msgs *[]Msg, lta *model.LinkedTreeAssociation) error {
	if c.ltaMode == LTAStrict {
		return fmt.Errorf("osc: linked-tree association requires lenient mode to encode unambiguously")
	}
	var tags strings.Builder
	tags.WriteByte('i')
	marker := byte('F')
	if lta.Physical {
		marker = 'T'
	}
	tags.WriteByte(marker)
	args := []interface{}{int32(lta.Session), lta.Physical}
	if len(lta.Graph.Nodes()) > 0 {
		if err := encodeTrunkTreeWalk(&tags, &args, lta.Graph); err != nil {
			return fmt.Errorf("osc: encoding linked-tree association: %w", err)
		}
	}
	*msgs = append(*msgs, Msg{Path: model.PathLinkedTreeAssoc, Tags: tags.String(), Args: args})
	return nil
}
