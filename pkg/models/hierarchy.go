package models

// BlankGroupLabel is the sentinel under which missing/blank values group in
// a hierarchy.
const BlankGroupLabel = "(blank)"

// HierarchyNode is one node of a nested grouping tree. Count is the number
// of records reaching this path; leaves carry the terminal count.
type HierarchyNode struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Count    int              `json:"count"`
	Children []*HierarchyNode `json:"children"`
}
