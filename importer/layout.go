package importer

import "strings"

// Marker in a data cell assigns the row's name to the category above it.
const Marker = "x"

const (
	themeRow    = 0
	subthemeRow = 1
	categoryRow = 2
	headerRows  = 3
)

// Node is one header label. Column is its 0-based position in the header
// row; Parent indexes the node it belongs to in the tier above (-1 for
// themes).
type Node struct {
	Label  string
	Column int
	Parent int
}

// Entry is one data row: a name and the categories marked for it.
type Entry struct {
	Row        int // 1-based sheet row
	Name       string
	Categories []int // indexes into Layout.Categories
}

// Layout is a validated sheet, ready to be written tier by tier.
type Layout struct {
	Themes     []Node
	Subthemes  []Node
	Categories []Node
	Entries    []Entry
}

// Parse validates rows against the fixed sheet shape: themes, subthemes
// and categories in the first three rows, then one name per row.
//
// A child label belongs to the nearest parent label at or to the left of
// its column, so a parent spans the empty cells after it the way merged
// header cells do. Every parent label needs a child label in its own
// column.
func Parse(rows [][]string) (*Layout, error) {
	if len(rows) < headerRows {
		return nil, malformed(0, 0, "expected theme, subtheme and category header rows, found %d rows", len(rows))
	}

	themes := labels(rows[themeRow], -1)
	if len(themes) == 0 {
		return nil, malformed(themeRow+1, 0, "no theme labels")
	}

	subthemes, err := pair(themes, rows[subthemeRow], subthemeRow, "subtheme", "theme")
	if err != nil {
		return nil, err
	}

	categories, err := pair(subthemes, rows[categoryRow], categoryRow, "category", "subtheme")
	if err != nil {
		return nil, err
	}

	categoryAt := make(map[int]int, len(categories))
	for i, c := range categories {
		categoryAt[c.Column] = i
	}

	var entries []Entry
	for r := headerRows; r < len(rows); r++ {
		row := rows[r]

		var marked []int
		for col := 1; col < len(row); col++ {
			if !isMarker(row[col]) {
				continue
			}
			idx, ok := categoryAt[col-1]
			if !ok {
				return nil, malformed(r+1, col+1, "marker has no category above it")
			}
			marked = append(marked, idx)
		}

		name := ""
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		if name == "" {
			if len(marked) > 0 {
				return nil, malformed(r+1, 1, "row has category markers but no name")
			}
			continue
		}

		entries = append(entries, Entry{Row: r + 1, Name: name, Categories: marked})
	}

	if len(entries) == 0 {
		return nil, malformed(0, 0, "no data rows after the header rows")
	}

	return &Layout{
		Themes:     themes,
		Subthemes:  subthemes,
		Categories: categories,
		Entries:    entries,
	}, nil
}

// pair assigns every label of row to a parent node.
func pair(parents []Node, row []string, rowIndex int, kind, parentKind string) ([]Node, error) {
	children := labels(row, -1)
	if len(children) == 0 {
		return nil, malformed(rowIndex+1, 0, "no %s labels", kind)
	}

	hasChild := make(map[int]bool, len(children))
	p := -1
	for i := range children {
		for p+1 < len(parents) && parents[p+1].Column <= children[i].Column {
			p++
		}
		if p < 0 {
			return nil, malformed(rowIndex+1, children[i].Column+1, "%s %q has no %s", kind, children[i].Label, parentKind)
		}
		children[i].Parent = p
		hasChild[children[i].Column] = true
	}

	for _, parent := range parents {
		if !hasChild[parent.Column] {
			return nil, malformed(rowIndex, parent.Column+1, "%s %q has no %s below it", parentKind, parent.Label, kind)
		}
	}

	return children, nil
}

func labels(row []string, parent int) []Node {
	var nodes []Node
	for col, cell := range row {
		label := strings.TrimSpace(cell)
		if label == "" {
			continue
		}
		nodes = append(nodes, Node{Label: label, Column: col, Parent: parent})
	}
	return nodes
}

func isMarker(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), Marker)
}
