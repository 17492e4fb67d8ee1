package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
)

// TreeFormatter renders recipe dependency trees
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders a dependency tree with one line per id
func (f *TreeFormatter) FormatTree(root *reachability.Node) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

func (f *TreeFormatter) formatNode(builder *strings.Builder, node *reachability.Node, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	fmt.Fprintf(builder, "%s%s %s %s%s%s\n",
		linePrefix,
		f.statusIcon(node),
		node.Colon,
		f.color(node),
		f.detail(node),
		f.colorReset(),
	)

	if len(node.Children) == 0 {
		return
	}
	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) statusIcon(node *reachability.Node) string {
	switch {
	case node.Made:
		return "[✓]"
	case node.Cycle:
		return "[↺]"
	case node.Recipe == "":
		return "[✗]"
	default:
		return "[ ]"
	}
}

func (f *TreeFormatter) detail(node *reachability.Node) string {
	switch {
	case node.Made:
		return "[made]"
	case node.Cycle:
		return "[cycle]"
	case node.Recipe == "":
		return "[no recipe]"
	default:
		return fmt.Sprintf("[%s, cost %s]", node.Recipe, costString(node.Cost))
	}
}

// color returns the ANSI color for a node status
func (f *TreeFormatter) color(node *reachability.Node) string {
	if !f.useColors {
		return ""
	}
	switch {
	case node.Made:
		return "\033[32m" // Green
	case node.Recipe == "":
		return "\033[31m" // Red
	default:
		return "\033[33m" // Yellow
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *reachability.Node) string {
	if root == nil {
		return "No dependency tree"
	}
	missing := root.Missing()
	return fmt.Sprintf("Tree: %d nodes, depth=%d, %d without recipe", root.CountNodes(), root.Depth(), len(missing))
}
