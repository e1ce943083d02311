// Package hierarchy groups a record set by an ordered column list into a
// nested count tree for drill-down displays.
package hierarchy

import (
	"github.com/dqanalyst/dq-engine/pkg/models"
)

// Build recursively groups records by columns[0], then within each group by
// columns[1], and so on. Each node's count is the number of records reaching
// that path; blank values group under the "(blank)" sentinel. Groups appear
// in first-seen record order. An empty column list yields an empty tree.
func Build(records []models.Record, columns []string) []*models.HierarchyNode {
	if len(columns) == 0 {
		return []*models.HierarchyNode{}
	}
	return build(records, columns, "")
}

func build(records []models.Record, columns []string, parentPath string) []*models.HierarchyNode {
	col := columns[0]

	var order []string
	groups := map[string][]models.Record{}
	for _, rec := range records {
		label := models.BlankGroupLabel
		if v := rec[col]; !models.IsBlank(v) {
			label = models.ValueKey(v)
		}
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], rec)
	}

	nodes := make([]*models.HierarchyNode, 0, len(order))
	for _, label := range order {
		members := groups[label]
		path := parentPath + "/" + label
		node := &models.HierarchyNode{
			ID:       path,
			Label:    label,
			Count:    len(members),
			Children: []*models.HierarchyNode{},
		}
		if len(columns) > 1 {
			node.Children = build(members, columns[1:], path)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
