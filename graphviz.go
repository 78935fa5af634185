package asyncfsm

import "github.com/enetx/g"

// ToDOT generates a DOT language string representation of the FSM for visualization.
// States and edges are emitted in declaration order.
func (f *FSM) ToDOT() g.String {
	b := g.NewBuilder()

	b.WriteString("digraph FSM {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	current := f.Current()

	b.WriteString("  __start [shape=point, style=invis];\n")
	b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", f.initial))

	var edges g.Slice[g.Pair[State, State]]

	labels := g.NewMap[g.Pair[State, State], g.Slice[g.String]]()
	outgoing := g.NewSet[State]()

	for _, event := range f.alphabet {
		for _, rule := range f.table[event] {
			key := g.Pair[State, State]{Key: rule.From, Value: rule.To}
			if !labels.Contains(key) {
				edges.Push(key)
			}

			label := g.String(event)

			labels.Entry(key).
				AndModify(func(s *g.Slice[g.String]) { s.Push(label) }).
				OrInsert(g.SliceOf(label))
			outgoing.Insert(rule.From)
		}
	}

	for _, state := range f.states {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", state))

		switch {
		case state == current:
			attrs.Push("fillcolor=\"#90ee90\"", "shape=doublecircle")
		case !outgoing.Contains(state):
			attrs.Push("fillcolor=\"#d3d3d3\"", "shape=doublecircle")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", state, attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for _, edge := range edges {
		b.WriteString(g.Format("  \"{}\" -> \"{}\" [label=\" {} \"];\n", edge.Key, edge.Value, labels[edge].Join("\\n")))
	}

	b.WriteString("\n  subgraph cluster_legend {\n")
	b.WriteString("    label = \"Legend\";\n")
	b.WriteString("    style = dashed;\n")
	b.WriteString(`    key [label=<
      <table border="0" cellpadding="4" cellspacing="0" cellborder="0">
        <tr><td align="right">●</td><td>Regular state</td></tr>
        <tr><td align="right"><font color="green">◎</font></td><td>Current state</td></tr>
        <tr><td align="right"><font color="gray">◎</font></td><td>Final state</td></tr>
      </table>
    >, shape=none];`)

	b.WriteString("  }\n")
	b.WriteString("}\n")

	return b.String()
}
