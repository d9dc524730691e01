package figma

import "strings"

// Page is a canvas with its top-level frames.
type Page struct {
	Name   string
	Frames []Node
}

// Pages finds every CANVAS node below doc, depth first. A canvas is not
// searched further; only its direct FRAME children are kept.
func Pages(doc Node) []Page {
	var pages []Page
	var walk func(n Node)
	walk = func(n Node) {
		if n.Type == "CANVAS" {
			p := Page{Name: n.Name}
			for _, c := range n.Children {
				if c.Type == "FRAME" {
					p.Frames = append(p.Frames, c)
				}
			}
			pages = append(pages, p)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range doc.Children {
		walk(c)
	}
	return pages
}

// NodeURL links to a node inside the file. Node IDs use ':' in the API and
// '-' in browser URLs.
func NodeURL(fileURL, nodeID string) string {
	return fileURL + "?node-id=" + strings.ReplaceAll(nodeID, ":", "-")
}
