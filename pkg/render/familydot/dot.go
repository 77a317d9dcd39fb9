package familydot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/timeweave/pkg/identity"
)

// Options configures DOT generation.
type Options struct {
	// Hops labels and shades persons by distance. Nil disables both.
	Hops identity.Hops
	// Detailed adds kind and life dates to labels.
	Detailed bool
	// HidePlaceholders leaves synthesized parents out of the drawing.
	HidePlaceholders bool
}

// shades from near (dark) to far (light); the last one is reused beyond.
var shades = []string{"#f4a261", "#f6bd60", "#f7d488", "#f9e6b3", "#fcf3dc"}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *identity.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	hidden := map[string]bool{}
	for _, p := range g.Persons() {
		if opts.HidePlaceholders && p.Synthetic {
			hidden[p.ID] = true
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(personAttrs(p, opts), ", "))
	}

	buf.WriteString("\n")
	for _, u := range g.Unions() {
		if hidden[u.Partners[0]] || hidden[u.Partners[1]] {
			continue
		}
		attrs := "shape=point, width=0.08"
		if u.Kind == identity.UnionDNA {
			attrs += ", style=invis"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", u.ID, attrs)
		style := ""
		if u.Kind == identity.UnionDNA {
			style = " [style=dashed]"
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", u.Partners[0], u.ID, style)
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", u.Partners[1], u.ID, style)
	}

	buf.WriteString("\n")
	unionOf := unionsByPair(g)
	for _, p := range g.Persons() {
		if hidden[p.ID] {
			continue
		}
		parents := parentsOf(p, hidden)
		switch len(parents) {
		case 2:
			pair := sortedPair(parents[0], parents[1])
			if uid, ok := unionOf[pair]; ok {
				fmt.Fprintf(&buf, "  %q -> %q [arrowhead=normal];\n", uid, p.ID)
				continue
			}
			for _, parent := range parents {
				fmt.Fprintf(&buf, "  %q -> %q [arrowhead=normal];\n", parent, p.ID)
			}
		case 1:
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=normal];\n", parents[0], p.ID)
		}
	}

	seen := map[[2]string]bool{}
	for _, p := range g.Persons() {
		for _, l := range p.Links {
			pair := sortedPair(p.ID, l)
			if seen[pair] || hidden[pair[0]] || hidden[pair[1]] {
				continue
			}
			seen[pair] = true
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, constraint=false];\n", pair[0], pair[1])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func personAttrs(p *identity.Person, opts Options) []string {
	label := p.Identity.DisplayName()
	if opts.Detailed {
		var parts []string
		if kind := string(p.Identity.Kind.Normalize()); kind != "person" {
			parts = append(parts, kind)
		}
		if b := p.Identity.Born; b.Known() {
			parts = append(parts, "born "+b.String())
		}
		if d := p.Identity.Died; d.Known() {
			parts = append(parts, "died "+d.String())
		}
		if len(parts) > 0 {
			label += "\n" + strings.Join(parts, "\n")
		}
	}

	fill := "white"
	if opts.Hops != nil {
		d := opts.Hops.Distance(p.ID)
		if !math.IsInf(d, 1) {
			label += fmt.Sprintf("\n(%d)", int(d))
			fill = shades[min(int(d), len(shades)-1)]
		}
	}

	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", fill)}
	if p.Synthetic {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40", "color=grey60")
	}
	return attrs
}

func parentsOf(p *identity.Person, hidden map[string]bool) []string {
	var out []string
	for _, id := range []string{p.Father, p.Mother} {
		if id != "" && !hidden[id] {
			out = append(out, id)
		}
	}
	return out
}

// unionsByPair picks one union per partner pair, preferring the earliest
// inserted (the first marriage) when a couple married more than once.
func unionsByPair(g *identity.Graph) map[[2]string]string {
	out := make(map[[2]string]string)
	for _, u := range g.Unions() {
		if _, ok := out[u.Partners]; !ok {
			out[u.Partners] = u.ID
		}
	}
	return out
}

func sortedPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// RenderSVG lays out DOT source with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
