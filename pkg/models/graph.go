package models

import (
	"fmt"

	"github.com/google/uuid"
)

// GraphNodeType distinguishes dataset nodes from column nodes.
type GraphNodeType string

const (
	NodeDataset GraphNodeType = "dataset"
	NodeColumn  GraphNodeType = "column"
)

// GraphEdgeType labels the relationship an edge expresses.
type GraphEdgeType string

const (
	EdgeContains    GraphEdgeType = "contains"
	EdgeInferredFK  GraphEdgeType = "inferred_fk"
	EdgeSharedField GraphEdgeType = "shared_field"
)

// GraphNode is one vertex of the workspace knowledge graph.
type GraphNode struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Type  GraphNodeType `json:"type"`
}

// GraphEdge is one edge of the workspace knowledge graph. IDs are derived
// deterministically from the endpoints and type so repeated assembly of the
// same workspace yields identical edges.
type GraphEdge struct {
	ID     string        `json:"id"`
	Source string        `json:"source"`
	Target string        `json:"target"`
	Label  string        `json:"label"`
	Type   GraphEdgeType `json:"type"`
}

// WorkspaceGraph is a plain node/edge list; traversal is by id lookup, not
// pointer-chasing, so no ownership cycles exist.
type WorkspaceGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// DatasetNodeID returns the deterministic node id for a dataset.
func DatasetNodeID(datasetID uuid.UUID) string {
	return "dataset:" + datasetID.String()
}

// ColumnNodeID returns the deterministic node id for a column.
func ColumnNodeID(datasetID uuid.UUID, column string) string {
	return fmt.Sprintf("column:%s:%s", datasetID, column)
}

// EdgeID derives a deterministic edge id from its type and endpoints.
func EdgeID(t GraphEdgeType, source, target string) string {
	return fmt.Sprintf("%s:%s->%s", t, source, target)
}
