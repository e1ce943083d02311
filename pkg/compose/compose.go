// Package compose resolves a Dataset or a View specification into a single
// flat MaterializedSource. Materialization is pure and recomputed on every
// access; it never mutates workspace inputs and never fails hard on stale
// references left behind by dataset deletion.
package compose

import (
	"github.com/google/uuid"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// Materialize resolves a source by id. The second return value is false when
// no dataset/view with that id exists (or the source type is unknown).
// Invalid or stale view configuration degrades to an empty result instead.
func Materialize(ws *models.Workspace, sourceType models.SourceType, sourceID uuid.UUID) (*models.MaterializedSource, bool) {
	switch sourceType {
	case models.SourceTypeDataset:
		ds := ws.DatasetByID(sourceID)
		if ds == nil {
			return nil, false
		}
		return materializeDataset(ds), true
	case models.SourceTypeView:
		v := ws.ViewByID(sourceID)
		if v == nil {
			return nil, false
		}
		return materializeView(ws, v), true
	default:
		return nil, false
	}
}

// materializeDataset flattens a dataset, re-projecting each record onto the
// declared column list so every output record carries exactly those columns.
func materializeDataset(ds *models.Dataset) *models.MaterializedSource {
	records := make([]models.Record, len(ds.Records))
	for i, rec := range ds.Records {
		out := make(models.Record, len(ds.Columns))
		for _, col := range ds.Columns {
			out[col] = rec[col] // absent keys read as nil
		}
		records[i] = out
	}
	return &models.MaterializedSource{
		ID:       ds.ID,
		Name:     ds.Name,
		Columns:  append([]string(nil), ds.Columns...),
		Records:  records,
		RowCount: len(records),
	}
}

func materializeView(ws *models.Workspace, v *models.View) *models.MaterializedSource {
	out := &models.MaterializedSource{
		ID:      v.ID,
		Name:    v.Name,
		Columns: viewAliases(v),
		Records: []models.Record{},
	}

	if !referencesResolve(ws, v) {
		return out
	}

	switch v.CombineMode {
	case models.CombineRowIndex:
		out.Records = combineByRowIndex(ws, v)
	case models.CombineJoinByKey:
		out.Records = combineByKey(ws, v)
	}
	out.RowCount = len(out.Records)
	return out
}

func viewAliases(v *models.View) []string {
	aliases := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		aliases[i] = c.Alias
	}
	return aliases
}

// referencesResolve verifies every dataset/column the view mentions still
// exists and, for join views, that the join configuration is present and
// consistent. Any failure resolves the whole view to an empty result.
func referencesResolve(ws *models.Workspace, v *models.View) bool {
	for _, c := range v.Columns {
		ds := ws.DatasetByID(c.DatasetID)
		if ds == nil || !ds.HasColumn(c.SourceColumn) {
			return false
		}
	}
	if v.CombineMode != models.CombineJoinByKey {
		return true
	}

	jc := v.JoinConfig
	if jc == nil {
		return false
	}
	base := ws.DatasetByID(jc.BaseDatasetID)
	if base == nil || !base.HasColumn(jc.BaseKeyColumn) {
		return false
	}
	member := map[uuid.UUID]bool{jc.BaseDatasetID: true}
	for _, t := range jc.Joins {
		target := ws.DatasetByID(t.DatasetID)
		if target == nil || !target.HasColumn(t.KeyColumn) {
			return false
		}
		member[t.DatasetID] = true
	}
	// View columns must stay within the join's base/targets.
	for _, c := range v.Columns {
		if !member[c.DatasetID] {
			return false
		}
	}
	return true
}

// combineByRowIndex zips the referenced datasets positionally. The result has
// max(rowCount) rows; indices beyond a dataset's length read as nil.
func combineByRowIndex(ws *models.Workspace, v *models.View) []models.Record {
	maxRows := 0
	for _, c := range v.Columns {
		if ds := ws.DatasetByID(c.DatasetID); ds != nil && len(ds.Records) > maxRows {
			maxRows = len(ds.Records)
		}
	}

	records := make([]models.Record, 0, maxRows)
	for i := 0; i < maxRows; i++ {
		row := make(models.Record, len(v.Columns))
		for _, c := range v.Columns {
			ds := ws.DatasetByID(c.DatasetID)
			if i < len(ds.Records) {
				row[c.Alias] = ds.Records[i][c.SourceColumn]
			} else {
				row[c.Alias] = nil
			}
		}
		records = append(records, row)
	}
	return records
}

// combinedRow maps dataset id -> the source record contributing to one
// output row. A missing entry means that dataset contributed no match, so
// its projected columns read as nil.
type combinedRow map[uuid.UUID]models.Record

// combineByKey performs an independent star join of each declared target
// against the base dataset. Targets are never chained against prior join
// results, which keeps multi-target joins commutative.
func combineByKey(ws *models.Workspace, v *models.View) []models.Record {
	jc := v.JoinConfig
	base := ws.DatasetByID(jc.BaseDatasetID)

	// Per-target index: key value -> target row indices in original order.
	targets := make([]*models.Dataset, len(jc.Joins))
	indexes := make([]map[string][]int, len(jc.Joins))
	matched := make([][]bool, len(jc.Joins)) // for full-join orphans
	for ti, t := range jc.Joins {
		target := ws.DatasetByID(t.DatasetID)
		idx := make(map[string][]int, len(target.Records))
		for ri, rec := range target.Records {
			if models.IsBlank(rec[t.KeyColumn]) {
				continue // blank keys never participate in matching
			}
			k := models.ValueKey(rec[t.KeyColumn])
			idx[k] = append(idx[k], ri)
		}
		targets[ti] = target
		indexes[ti] = idx
		matched[ti] = make([]bool, len(target.Records))
	}

	var rows []combinedRow
	for _, baseRec := range base.Records {
		perTarget := make([][]int, len(jc.Joins))
		missing := false
		for ti := range jc.Joins {
			var hits []int
			if !models.IsBlank(baseRec[jc.BaseKeyColumn]) {
				hits = indexes[ti][models.ValueKey(baseRec[jc.BaseKeyColumn])]
			}
			if len(hits) == 0 {
				missing = true
			} else {
				for _, ri := range hits {
					matched[ti][ri] = true
				}
				if jc.OneToManyMode == models.OneToManyFirstMatch {
					hits = hits[:1]
				}
			}
			perTarget[ti] = hits
		}

		if missing && jc.JoinType == models.JoinInner {
			continue
		}
		rows = append(rows, crossProduct(baseRec, jc, targets, perTarget)...)
	}

	// Full joins additionally emit each target's unmatched records as
	// synthetic rows with base (and sibling target) columns nil. Orphans are
	// additive and independent per target.
	if jc.JoinType == models.JoinFull {
		for ti, t := range jc.Joins {
			for ri, rec := range targets[ti].Records {
				if matched[ti][ri] {
					continue
				}
				rows = append(rows, combinedRow{t.DatasetID: rec})
			}
		}
	}

	return project(v, rows)
}

// crossProduct expands one base record against its per-target matches: the
// full Cartesian product across targets. An unmatched target (left/full
// joins) contributes no entry, so its columns project as nil.
func crossProduct(baseRec models.Record, jc *models.JoinConfig, targets []*models.Dataset, perTarget [][]int) []combinedRow {
	rows := []combinedRow{{jc.BaseDatasetID: baseRec}}
	for ti, hits := range perTarget {
		if len(hits) == 0 {
			continue
		}
		targetID := jc.Joins[ti].DatasetID
		next := make([]combinedRow, 0, len(rows)*len(hits))
		for _, row := range rows {
			for _, ri := range hits {
				expanded := make(combinedRow, len(row)+1)
				for k, v := range row {
					expanded[k] = v
				}
				expanded[targetID] = targets[ti].Records[ri]
				next = append(next, expanded)
			}
		}
		rows = next
	}
	return rows
}

// project maps combined rows onto the view's declared aliases.
func project(v *models.View, rows []combinedRow) []models.Record {
	records := make([]models.Record, len(rows))
	for i, row := range rows {
		out := make(models.Record, len(v.Columns))
		for _, c := range v.Columns {
			if src, ok := row[c.DatasetID]; ok {
				out[c.Alias] = src[c.SourceColumn]
			} else {
				out[c.Alias] = nil
			}
		}
		records[i] = out
	}
	return records
}
