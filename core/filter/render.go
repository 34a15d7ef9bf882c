package filter

import "strings"

// Render writes seq in the engine's expression syntax.
func Render(seq Seq) string {
	var b strings.Builder
	renderSeq(&b, seq)
	return b.String()
}

func renderSeq(b *strings.Builder, seq Seq) {
	for i, it := range seq.Items {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(it.Conn)
			b.WriteByte(' ')
		}
		renderNode(b, it.Node)
	}
}

func renderNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Term:
		if n.Quoted {
			b.WriteString("(_raw rlike '")
			b.WriteString(strings.ReplaceAll(n.Text, "*", ".*"))
			b.WriteString("')")
		} else {
			b.WriteString("(_raw like '%")
			b.WriteString(strings.ReplaceAll(n.Text, "*", "%"))
			b.WriteString("%')")
		}

	case *Comparison:
		switch n.Op {
		case "=":
			if strings.Contains(n.Value, "*") {
				b.WriteByte('(')
				renderEquality(b, n)
				b.WriteByte(')')
			} else {
				renderEquality(b, n)
			}
		case "!=":
			b.WriteString("!(")
			renderEquality(b, n)
			b.WriteByte(')')
		default:
			b.WriteString(n.Field)
			b.WriteString(n.Op)
			if n.Quoted {
				b.WriteByte(n.Quote)
				b.WriteString(n.Value)
				b.WriteByte(n.Quote)
			} else {
				b.WriteString(n.Value)
			}
		}

	case *Not:
		if parenthesized(n.Operand) {
			b.WriteByte('!')
			renderNode(b, n.Operand)
		} else {
			b.WriteString("!(")
			renderNode(b, n.Operand)
			b.WriteByte(')')
		}

	case *Group:
		b.WriteByte('(')
		renderSeq(b, n.Seq)
		b.WriteByte(')')
	}
}

func renderEquality(b *strings.Builder, c *Comparison) {
	if strings.Contains(c.Value, "*") {
		b.WriteString(c.Field)
		b.WriteString(" rlike '")
		b.WriteString(strings.ReplaceAll(c.Value, "*", ".*"))
		b.WriteByte('\'')
		return
	}
	b.WriteString(c.Field)
	b.WriteString(`="`)
	b.WriteString(c.Value)
	b.WriteByte('"')
}

// parenthesized reports whether n renders wrapped in a single pair of
// parentheses.
func parenthesized(n Node) bool {
	switch n := n.(type) {
	case *Term, *Group:
		return true
	case *Comparison:
		return n.Op == "=" && strings.Contains(n.Value, "*")
	}
	return false
}

// Fields returns the distinct comparison fields of seq in first-appearance order.
func Fields(seq Seq) []string {
	fields := []string{}
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Comparison:
			if !seen[n.Field] {
				seen[n.Field] = true
				fields = append(fields, n.Field)
			}
		case *Not:
			walk(n.Operand)
		case *Group:
			for _, it := range n.Seq.Items {
				walk(it.Node)
			}
		}
	}
	for _, it := range seq.Items {
		walk(it.Node)
	}
	return fields
}
