package discovery

import (
	"sort"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/dqanalyst/dq-engine/pkg/inference"
	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/profiling"
)

// columnSample caches one column's sorted distinct values and inferred type
// so pairwise comparison does not re-scan records.
type columnSample struct {
	dataset     *models.Dataset
	column      string
	distinct    []string // sorted
	inferred    models.InferredType
	datasetName string
}

// InferForeignKeys measures value-set overlap for every ordered pair of
// columns across distinct datasets and declares a foreign key when overlap
// clears the confidence threshold. Naming-convention hints
// (user_id -> users.id, singular/plural tolerant) relax the threshold and
// are recorded in the detection method. Distinct-value sets are sorted
// before comparison, so results do not depend on record iteration order.
func InferForeignKeys(ws *models.Workspace, opts Options) []models.InferredForeignKey {
	opts = opts.withDefaults()

	var cols []columnSample
	for _, ds := range ws.Datasets {
		sample, _ := profiling.Sample(ds.Records, opts.SampleCap, opts.SampleScale)
		for _, col := range ds.Columns {
			cols = append(cols, sampleColumn(ds, col, sample))
		}
	}

	var fks []models.InferredForeignKey
	for i := range cols {
		source := &cols[i]
		if len(source.distinct) < opts.MinDistinctForFK {
			continue // low-cardinality source: likely a flag or enum
		}
		if source.inferred == models.TypeBoolean {
			continue
		}
		for j := range cols {
			target := &cols[j]
			if source.dataset.ID == target.dataset.ID {
				continue
			}

			shared := intersectSorted(source.distinct, target.distinct)
			overlapPct := float64(shared) / float64(len(source.distinct)) * 100
			hinted := nameHintsAt(source.column, target.datasetName, target.column)

			method := models.DetectionValueMatch
			switch {
			case overlapPct >= opts.FKOverlapPct && hinted:
				method = models.DetectionHybrid
			case overlapPct >= opts.FKOverlapPct:
				// value match alone
			case hinted && overlapPct >= opts.FKNameHintOverlapPct:
				method = models.DetectionNameInference
			default:
				continue
			}

			fks = append(fks, models.InferredForeignKey{
				SourceDatasetID: source.dataset.ID,
				SourceColumn:    source.column,
				TargetDatasetID: target.dataset.ID,
				TargetColumn:    target.column,
				OverlapPct:      overlapPct,
				OrphanCount:     len(source.distinct) - shared,
				Method:          method,
			})
		}
	}
	return fks
}

func sampleColumn(ds *models.Dataset, col string, sample []models.Record) columnSample {
	values := make([]models.Value, 0, len(sample))
	distinct := map[string]struct{}{}
	for _, rec := range sample {
		v := rec[col]
		if models.IsBlank(v) {
			continue
		}
		values = append(values, v)
		distinct[models.ValueKey(v)] = struct{}{}
	}
	keys := make([]string, 0, len(distinct))
	for k := range distinct {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return columnSample{
		dataset:     ds,
		datasetName: ds.Name,
		column:      col,
		distinct:    keys,
		inferred:    inference.InferType(values),
	}
}

// intersectSorted counts common elements of two sorted string slices.
func intersectSorted(a, b []string) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// nameHintsAt reports whether a source column name points at a target
// dataset/column by convention: {entity}_id against a dataset named entity
// (singular or plural) whose key column is "id" or repeats the source name.
func nameHintsAt(sourceColumn, targetDataset, targetColumn string) bool {
	src := strings.ToLower(strings.TrimSpace(sourceColumn))
	tgtDS := strings.ToLower(strings.TrimSpace(targetDataset))
	tgtCol := strings.ToLower(strings.TrimSpace(targetColumn))

	entity, isIDRef := strings.CutSuffix(src, "_id")
	if !isIDRef {
		entity = src
	}
	if entity == "" {
		return false
	}

	datasetMatches := tgtDS == entity ||
		tgtDS == inflection.Plural(entity) ||
		inflection.Singular(tgtDS) == entity
	if !datasetMatches {
		return false
	}
	return tgtCol == "id" || tgtCol == src || tgtCol == entity+"_id"
}
