// Package graph assembles the workspace knowledge graph: dataset and column
// nodes, containment edges, inferred foreign-key edges, and shared-field
// edges. Assembly is idempotent; node and edge ids derive deterministically
// from their endpoints.
package graph

import (
	"sort"

	"github.com/dqanalyst/dq-engine/pkg/discovery"
	"github.com/dqanalyst/dq-engine/pkg/inference"
	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/profiling"
)

// Build assembles the knowledge graph for a workspace. Foreign keys are
// inferred with the given options; pass discovery.DefaultOptions() for the
// documented thresholds.
func Build(ws *models.Workspace, opts discovery.Options) *models.WorkspaceGraph {
	g := &models.WorkspaceGraph{Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}}
	seenEdges := map[string]bool{}

	addEdge := func(e models.GraphEdge) {
		if !seenEdges[e.ID] {
			seenEdges[e.ID] = true
			g.Edges = append(g.Edges, e)
		}
	}

	// Dataset and column nodes plus containment, in workspace order.
	type columnInfo struct {
		dataset *models.Dataset
		column  string
		typ     models.InferredType
		nodeID  string
	}
	var columns []columnInfo
	for _, ds := range ws.Datasets {
		dsNode := models.DatasetNodeID(ds.ID)
		g.Nodes = append(g.Nodes, models.GraphNode{ID: dsNode, Label: ds.Name, Type: models.NodeDataset})

		sample, _ := profiling.Sample(ds.Records, opts.SampleCap, opts.SampleScale)
		for _, col := range ds.Columns {
			colNode := models.ColumnNodeID(ds.ID, col)
			g.Nodes = append(g.Nodes, models.GraphNode{ID: colNode, Label: col, Type: models.NodeColumn})
			addEdge(models.GraphEdge{
				ID:     models.EdgeID(models.EdgeContains, dsNode, colNode),
				Source: dsNode,
				Target: colNode,
				Label:  "contains",
				Type:   models.EdgeContains,
			})
			columns = append(columns, columnInfo{
				dataset: ds,
				column:  col,
				typ:     inferColumnType(sample, col),
				nodeID:  colNode,
			})
		}
	}

	// Inferred foreign keys become directed column->column edges. Track the
	// connected column pairs so shared-field edges do not restate them.
	fkLinked := map[string]bool{}
	for _, fk := range discovery.InferForeignKeys(ws, opts) {
		src := models.ColumnNodeID(fk.SourceDatasetID, fk.SourceColumn)
		tgt := models.ColumnNodeID(fk.TargetDatasetID, fk.TargetColumn)
		addEdge(models.GraphEdge{
			ID:     models.EdgeID(models.EdgeInferredFK, src, tgt),
			Source: src,
			Target: tgt,
			Label:  string(fk.Method),
			Type:   models.EdgeInferredFK,
		})
		fkLinked[pairKey(src, tgt)] = true
	}

	// Shared fields: same name and same inferred type across datasets, not
	// already linked by an inferred foreign key. Undirected, so endpoints
	// are ordered lexically for a stable id.
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			a, b := columns[i], columns[j]
			if a.dataset.ID == b.dataset.ID || a.column != b.column || a.typ != b.typ {
				continue
			}
			if fkLinked[pairKey(a.nodeID, b.nodeID)] {
				continue
			}
			src, tgt := a.nodeID, b.nodeID
			if tgt < src {
				src, tgt = tgt, src
			}
			addEdge(models.GraphEdge{
				ID:     models.EdgeID(models.EdgeSharedField, src, tgt),
				Source: src,
				Target: tgt,
				Label:  a.column,
				Type:   models.EdgeSharedField,
			})
		}
	}

	return g
}

func inferColumnType(sample []models.Record, col string) models.InferredType {
	values := make([]models.Value, len(sample))
	for i, rec := range sample {
		values[i] = rec[col]
	}
	return inference.InferType(values)
}

// pairKey is an order-insensitive key for a column node pair.
func pairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "|" + pair[1]
}
