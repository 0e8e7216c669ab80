package automaton

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/parklynx/internal/fancy"
)

// edges lists the live transition tables, ordered by source id then event.
// Overwritten audit records are not included.
func edges(a *Automaton) []Transition {
	var out []Transition
	for _, src := range a.States() {
		for _, evt := range src.Events() {
			dstID, _ := src.Next(evt)
			dst, ok := a.State(dstID)
			if !ok {
				continue
			}
			out = append(out, Transition{Source: src, Destination: dst, Event: evt})
		}
	}
	return out
}

// Mermaid renders the graph as a Mermaid state diagram. The initial state is
// linked from the start marker and the current state is annotated.
func Mermaid(a *Automaton) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for _, s := range a.States() {
		if s.IsInitial() {
			fmt.Fprintf(&sb, "\t[*] --> %s\n", s.Label)
		}
	}
	for _, t := range edges(a) {
		fmt.Fprintf(&sb, "\t%s --> %s : %s\n", t.Source.Label, t.Destination.Label, t.Event)
	}
	if cur := a.Current(); cur != nil {
		fmt.Fprintf(&sb, "\tnote right of %s : current\n", cur.Label)
	}
	return sb.String()
}

// DOT renders the graph in Graphviz DOT format.
func DOT(a *Automaton) string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("\trankdir=\"LR\"\n")

	cur := a.Current()
	for _, s := range a.States() {
		attrs := []string{fmt.Sprintf("label=\"%s\"", s.Label)}
		switch s.Role {
		case RoleInitial:
			attrs = append(attrs, "shape=\"doublecircle\"")
		case RoleFinal, RoleSink:
			attrs = append(attrs, "shape=\"box\"")
		default:
			attrs = append(attrs, "shape=\"ellipse\"")
		}
		if cur != nil && cur.ID == s.ID {
			attrs = append(attrs, "style=\"filled\"", "fillcolor=\"lightblue\"")
		}
		fmt.Fprintf(&sb, "\t%d [%s];\n", s.ID, strings.Join(attrs, ", "))
	}
	for _, t := range edges(a) {
		fmt.Fprintf(&sb, "\t%d -> %d [label=\"%s\"];\n", t.Source.ID, t.Destination.ID, t.Event)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Tree renders each state with its outgoing events as a styled tree.
// describe, if non-nil, supplies an extra line per state.
func Tree(a *Automaton, title string, describe func(*State) string) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(title))

	byState := make(map[StateID][]Transition)
	for _, e := range edges(a) {
		byState[e.Source.ID] = append(byState[e.Source.ID], e)
	}

	cur := a.Current()
	for _, s := range a.States() {
		label := fancy.StateText(s.Label)
		if cur != nil && cur.ID == s.ID {
			label = fancy.CurrentStateText(s.Label + " (current)")
		}
		node := fancy.BranchNode(label, fmt.Sprintf("[%d %s]", s.ID, s.Role))
		if describe != nil {
			if desc := describe(s); desc != "" {
				node.Child(fancy.InfoStyle.Render(desc))
			}
		}
		for _, e := range byState[s.ID] {
			node.Child(fmt.Sprintf("%s -> %s", fancy.EventText(e.Event), e.Destination.Label))
		}
		t.Child(node)
	}
	return t.String()
}
