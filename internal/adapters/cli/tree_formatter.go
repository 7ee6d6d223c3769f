package cli

import (
	"fmt"
	"strings"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
)

// TreeFormatter renders material trees for terminal display
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders a material tree with box-drawing connectors
func (f *TreeFormatter) FormatTree(root *materials.MaterialNode) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *materials.MaterialNode, prefix string, isLast, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	kindColor := f.kindColor(node.Kind)

	tierText := ""
	if node.Tier != catalog.TierUntiered {
		tierText = fmt.Sprintf(" t%d", node.Tier)
	}

	recipeText := ""
	switch {
	case node.Construction != nil:
		recipeText = fmt.Sprintf(" {construction %d}", node.Construction.ID)
	case node.Recipe != nil:
		recipeText = fmt.Sprintf(" {recipe %d, makes %d}", node.Recipe.ID, node.Recipe.OutputQuantity)
	case node.IsLeaf():
		recipeText = " (gather)"
	}

	builder.WriteString(fmt.Sprintf("%s%s%s%s x%d%s%s\n",
		linePrefix,
		kindColor,
		node.Name,
		f.colorOff(),
		node.Quantity,
		tierText,
		recipeText,
	))

	if len(node.Children) > 0 {
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
}

// kindColor returns the ANSI color for an entity kind
func (f *TreeFormatter) kindColor(kind catalog.EntityKind) string {
	if !f.useColors {
		return ""
	}
	switch kind {
	case catalog.KindItem:
		return colorCyan
	case catalog.KindCargo:
		return colorYellow
	case catalog.KindBuilding:
		return colorGreen
	default:
		return ""
	}
}

func (f *TreeFormatter) colorOff() string {
	if !f.useColors {
		return ""
	}
	return colorReset
}
