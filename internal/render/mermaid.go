package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Diagram is the subset of a mermaid flowchart needed to draw an outline.
type Diagram struct {
	Kind      string // graph, flowchart, sequenceDiagram, ...
	Direction string
	Nodes     []Node
	Edges     []Edge
	Groups    []Group
}

type Node struct {
	ID    string
	Label string
	Group string
}

type Edge struct {
	From, To string
	Label    string
	Group    string
}

type Group struct {
	ID    string
	Title string
}

var (
	nodeToken  = regexp.MustCompile(`^([A-Za-z0-9_]+)\s*(\["[^"]*"\]|\("[^"]*"\)|\{"[^"]*"\}|\(\[.*?\]\)|\[\[.*?\]\]|\[\(.*?\)\]|\(\(.*?\)\)|\{\{.*?\}\}|\[.*?\]|\(.*?\)|\{.*?\}|>.*?\])?`)
	pipeEdge   = regexp.MustCompile(`^\s*<?[-=.]{2,}>?\s*\|([^|]*)\|\s*`)
	textEdge   = regexp.MustCompile(`^\s*(?:--|==|-\.)\s+(.+?)\s+(?:-->|==>|\.->|---|===)\s*`)
	plainEdge  = regexp.MustCompile(`^\s*<?[-=.]{2,}(?:>|o\s|x\s)?\s*`)
	headerLine = regexp.MustCompile(`^(graph|flowchart)\b\s*(TD|TB|BT|LR|RL)?`)
)

// ParseMermaid reads node and edge statements from a flowchart. It reports
// false when the source is not a flowchart.
func ParseMermaid(src string) (Diagram, bool) {
	var d Diagram
	seen := map[string]int{}
	var stack []string

	addNode := func(id, label string) {
		group := ""
		if len(stack) > 0 {
			group = stack[len(stack)-1]
		}
		if i, ok := seen[id]; ok {
			if label != "" {
				d.Nodes[i].Label = label
			}
			return
		}
		seen[id] = len(d.Nodes)
		d.Nodes = append(d.Nodes, Node{ID: id, Label: label, Group: group})
	}

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ";"))
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if d.Kind == "" {
			m := headerLine.FindStringSubmatch(line)
			if m == nil {
				d.Kind = strings.Fields(line)[0]
				return d, false
			}
			d.Kind = m[1]
			d.Direction = m[2]
			continue
		}
		if rest, ok := strings.CutPrefix(line, "subgraph"); ok && (rest == "" || rest[0] == ' ') {
			g := parseSubgraph(strings.TrimSpace(rest), len(d.Groups)+1)
			d.Groups = append(d.Groups, g)
			stack = append(stack, g.ID)
			continue
		}
		if line == "end" {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		if isDirective(line) {
			continue
		}
		parseStatement(line, addNode, func(e Edge) {
			if len(stack) > 0 {
				e.Group = stack[len(stack)-1]
			}
			d.Edges = append(d.Edges, e)
		})
	}
	return d, d.Kind != ""
}

func parseSubgraph(rest string, n int) Group {
	var id, title string
	switch {
	case strings.Contains(rest, "["):
		i := strings.Index(rest, "[")
		id = strings.TrimSpace(rest[:i])
		title = cleanLabel(rest[i:])
	case strings.HasPrefix(rest, `"`):
		title = strings.Trim(rest, `"`)
	default:
		id = rest
		title = rest
	}
	if id == "" {
		id = fmt.Sprintf("group%d", n)
	}
	if title == "" {
		title = id
	}
	return Group{ID: id, Title: title}
}

func isDirective(line string) bool {
	for _, prefix := range []string{"classDef ", "class ", "style ", "linkStyle ", "click ", "direction "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func parseStatement(line string, addNode func(id, label string), addEdge func(Edge)) {
	rest := line
	id, label, rest, ok := takeNode(rest)
	if !ok {
		return
	}
	addNode(id, label)
	prev := id
	for rest != "" {
		edgeLabel, next, ok := takeEdge(rest)
		if !ok {
			return
		}
		id, label, after, ok := takeNode(next)
		if !ok {
			return
		}
		addNode(id, label)
		addEdge(Edge{From: prev, To: id, Label: edgeLabel})
		prev = id
		rest = after
	}
}

func takeNode(s string) (id, label, rest string, ok bool) {
	s = strings.TrimSpace(s)
	m := nodeToken.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", s, false
	}
	id = s[m[2]:m[3]]
	if m[4] >= 0 {
		label = cleanLabel(s[m[4]:m[5]])
	}
	return id, label, strings.TrimSpace(s[m[1]:]), true
}

func takeEdge(s string) (label, rest string, ok bool) {
	if m := pipeEdge.FindStringSubmatch(s); m != nil {
		return cleanLabel(m[1]), s[len(m[0]):], true
	}
	if m := textEdge.FindStringSubmatch(s); m != nil {
		return cleanLabel(m[1]), s[len(m[0]):], true
	}
	if m := plainEdge.FindStringSubmatch(s); m != nil {
		return "", s[len(m[0]):], true
	}
	return "", s, false
}

var bracketPairs = [][2]string{
	{"([", "])"}, {"[[", "]]"}, {"[(", ")]"}, {"((", "))"}, {"{{", "}}"},
	{"[", "]"}, {"(", ")"}, {"{", "}"}, {">", "]"},
}

func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range bracketPairs {
		if strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) && len(s) >= len(pair[0])+len(pair[1]) {
			s = s[len(pair[0]) : len(s)-len(pair[1])]
			break
		}
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	replacer := strings.NewReplacer("#quot;", `"`, "<br/>", " ", "<br>", " ", "<br />", " ")
	return strings.TrimSpace(replacer.Replace(s))
}

func directionName(dir string) string {
	switch dir {
	case "LR":
		return "left to right"
	case "RL":
		return "right to left"
	case "BT":
		return "bottom up"
	default:
		return "top down"
	}
}

// OutlineRenderer draws flowcharts as a boxed list of edges. Other diagram
// kinds fall back to their source.
type OutlineRenderer struct {
	Theme Theme
}

func (o OutlineRenderer) RenderDiagram(source string, width int) string {
	inner := width - 4
	if inner < minWidth/2 {
		inner = minWidth / 2
	}
	d, ok := ParseMermaid(source)
	var body string
	if ok && (len(d.Edges) > 0 || len(d.Nodes) > 0) {
		header := o.Theme.DiagramTag.Render(fmt.Sprintf("◇ diagram · %s", directionName(d.Direction)))
		body = header + "\n" + wordwrap.String(Outline(d), inner)
	} else {
		kind := d.Kind
		if kind == "" {
			kind = "mermaid"
		}
		header := o.Theme.DiagramTag.Render("◇ " + kind)
		body = header + "\n" + o.Theme.Muted.Render(strings.TrimRight(source, "\n"))
	}
	return o.Theme.Diagram.Width(inner).Render(body)
}

// Outline lists the diagram's edges grouped by subgraph, followed by any
// nodes that have no edges.
func Outline(d Diagram) string {
	labels := map[string]string{}
	for _, n := range d.Nodes {
		labels[n.ID] = n.Label
		if labels[n.ID] == "" {
			labels[n.ID] = n.ID
		}
	}
	connected := map[string]bool{}
	for _, e := range d.Edges {
		connected[e.From] = true
		connected[e.To] = true
	}

	var b strings.Builder
	writeGroup := func(group, indent string) {
		for _, e := range d.Edges {
			if e.Group != group {
				continue
			}
			arrow := "──▶"
			if e.Label != "" {
				arrow = "──" + e.Label + "──▶"
			}
			fmt.Fprintf(&b, "%s%s %s %s\n", indent, labels[e.From], arrow, labels[e.To])
		}
		for _, n := range d.Nodes {
			if n.Group == group && !connected[n.ID] {
				fmt.Fprintf(&b, "%s• %s\n", indent, labels[n.ID])
			}
		}
	}
	writeGroup("", "")
	for _, g := range d.Groups {
		fmt.Fprintf(&b, "▸ %s\n", g.Title)
		writeGroup(g.ID, "  ")
	}
	return strings.TrimRight(b.String(), "\n")
}
