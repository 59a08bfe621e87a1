package normalize

import "github.com/google/uuid"

type NormalizedMindMap struct {
	Title string        `json:"title"`
	Nodes []MindMapNode `json:"nodes"`
}

// MindMapNode ids are generated when the input omits them. Parent/children
// references are carried through untouched; they are not checked against the
// node set, so dangling references survive normalization.
type MindMapNode struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Children []string `json:"children,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	Level    int      `json:"level,omitempty"`
}

func parseMindMap(mm map[string]any) NormalizedMindMap {
	m := NormalizedMindMap{
		Title: asString(pick(mm, "title"), "Mind Map"),
	}

	raw, _ := asSlice(pick(mm, "nodes"))
	m.Nodes = make([]MindMapNode, 0, len(raw))
	for _, nv := range raw {
		nm, ok := asMap(nv)
		if !ok {
			continue
		}
		id := asString(pick(nm, "id"), "")
		if id == "" {
			id = uuid.NewString()
		}
		m.Nodes = append(m.Nodes, MindMapNode{
			ID:       id,
			Label:    asString(pick(nm, "label"), ""),
			Children: asStringSlice(pick(nm, "children")),
			Parent:   asString(pick(nm, "parent"), ""),
			Level:    asInt(pick(nm, "level"), 0),
		})
	}
	return m
}
