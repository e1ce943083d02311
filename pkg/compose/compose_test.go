package compose

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

func newDataset(name string, columns []string, records []models.Record) *models.Dataset {
	return &models.Dataset{
		ID:       uuid.New(),
		Name:     name,
		Columns:  columns,
		Records:  records,
		RowCount: len(records),
	}
}

func newWorkspace(datasets ...*models.Dataset) *models.Workspace {
	return &models.Workspace{ID: uuid.New(), Name: "test", Datasets: datasets, Views: []*models.View{}}
}

func TestMaterialize_Dataset(t *testing.T) {
	ds := newDataset("orders", []string{"id", "total"}, []models.Record{
		{"id": "1", "total": float64(10)},
		{"id": "2"}, // total absent: must read as nil after projection
	})
	ws := newWorkspace(ds)

	src, ok := Materialize(ws, models.SourceTypeDataset, ds.ID)
	require.True(t, ok)
	assert.Equal(t, ds.ID, src.ID)
	assert.Equal(t, []string{"id", "total"}, src.Columns)
	require.Equal(t, 2, src.RowCount)
	assert.Nil(t, src.Records[1]["total"])
}

func TestMaterialize_UnknownSource(t *testing.T) {
	ws := newWorkspace()
	_, ok := Materialize(ws, models.SourceTypeDataset, uuid.New())
	assert.False(t, ok)
	_, ok = Materialize(ws, models.SourceTypeView, uuid.New())
	assert.False(t, ok)
	_, ok = Materialize(ws, models.SourceType("bogus"), uuid.New())
	assert.False(t, ok)
}

func TestMaterialize_RowIndexView(t *testing.T) {
	left := newDataset("left", []string{"a"}, []models.Record{
		{"a": "l1"}, {"a": "l2"}, {"a": "l3"},
	})
	right := newDataset("right", []string{"b"}, []models.Record{
		{"b": "r1"},
	})
	ws := newWorkspace(left, right)
	view := &models.View{
		ID:          uuid.New(),
		Name:        "zipped",
		CombineMode: models.CombineRowIndex,
		Columns: []models.ViewColumn{
			{DatasetID: left.ID, SourceColumn: "a", Alias: "a"},
			{DatasetID: right.ID, SourceColumn: "b", Alias: "b"},
		},
	}
	ws.Views = append(ws.Views, view)

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	// Row count is the max of the referenced datasets; short datasets pad
	// with nil.
	require.Equal(t, 3, src.RowCount)
	assert.Equal(t, "r1", src.Records[0]["b"])
	assert.Nil(t, src.Records[1]["b"])
	assert.Nil(t, src.Records[2]["b"])
	assert.Equal(t, "l3", src.Records[2]["a"])
}

func joinFixture() (*models.Workspace, *models.Dataset, *models.Dataset) {
	orders := newDataset("orders", []string{"order_id", "customer_id"}, []models.Record{
		{"order_id": "o1", "customer_id": "c1"},
		{"order_id": "o2", "customer_id": "c2"},
		{"order_id": "o3", "customer_id": "missing"},
		{"order_id": "o4", "customer_id": ""}, // blank key never matches
	})
	customers := newDataset("customers", []string{"id", "name"}, []models.Record{
		{"id": "c1", "name": "Ada"},
		{"id": "c2", "name": "Grace"},
		{"id": "c9", "name": "Orphan"},
	})
	return newWorkspace(orders, customers), orders, customers
}

func joinView(orders, customers *models.Dataset, jt models.JoinType, otm models.OneToManyMode) *models.View {
	return &models.View{
		ID:          uuid.New(),
		Name:        "orders_customers",
		CombineMode: models.CombineJoinByKey,
		Columns: []models.ViewColumn{
			{DatasetID: orders.ID, SourceColumn: "order_id", Alias: "order_id"},
			{DatasetID: customers.ID, SourceColumn: "name", Alias: "customer_name"},
		},
		JoinConfig: &models.JoinConfig{
			BaseDatasetID: orders.ID,
			BaseKeyColumn: "customer_id",
			JoinType:      jt,
			OneToManyMode: otm,
			Joins: []models.JoinTarget{
				{DatasetID: customers.ID, KeyColumn: "id"},
			},
		},
	}
}

func TestMaterialize_InnerJoin(t *testing.T) {
	ws, orders, customers := joinFixture()
	view := joinView(orders, customers, models.JoinInner, models.OneToManyExpand)
	ws.Views = append(ws.Views, view)

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	// Only o1 and o2 match; o3 has no counterpart and o4's key is blank.
	require.Equal(t, 2, src.RowCount)
	assert.Equal(t, "Ada", src.Records[0]["customer_name"])
	assert.Equal(t, "Grace", src.Records[1]["customer_name"])
}

func TestMaterialize_LeftJoin(t *testing.T) {
	ws, orders, customers := joinFixture()
	view := joinView(orders, customers, models.JoinLeft, models.OneToManyExpand)
	ws.Views = append(ws.Views, view)

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	// All base rows survive; unmatched target columns read nil.
	require.Equal(t, 4, src.RowCount)
	assert.Nil(t, src.Records[2]["customer_name"])
	assert.Nil(t, src.Records[3]["customer_name"])
	assert.Equal(t, "o3", src.Records[2]["order_id"])
}

func TestMaterialize_FullJoin_Orphans(t *testing.T) {
	ws, orders, customers := joinFixture()
	view := joinView(orders, customers, models.JoinFull, models.OneToManyExpand)
	ws.Views = append(ws.Views, view)

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	// 4 base rows plus the unmatched customer c9 as a synthetic row.
	require.Equal(t, 5, src.RowCount)
	orphan := src.Records[4]
	assert.Nil(t, orphan["order_id"])
	assert.Equal(t, "Orphan", orphan["customer_name"])
}

func TestMaterialize_OneToMany(t *testing.T) {
	base := newDataset("accounts", []string{"id"}, []models.Record{
		{"id": "a1"},
	})
	events := newDataset("events", []string{"account_id", "kind"}, []models.Record{
		{"account_id": "a1", "kind": "open"},
		{"account_id": "a1", "kind": "close"},
	})
	ws := newWorkspace(base, events)

	makeView := func(otm models.OneToManyMode) *models.View {
		v := &models.View{
			ID:          uuid.New(),
			CombineMode: models.CombineJoinByKey,
			Columns: []models.ViewColumn{
				{DatasetID: base.ID, SourceColumn: "id", Alias: "id"},
				{DatasetID: events.ID, SourceColumn: "kind", Alias: "kind"},
			},
			JoinConfig: &models.JoinConfig{
				BaseDatasetID: base.ID,
				BaseKeyColumn: "id",
				JoinType:      models.JoinInner,
				OneToManyMode: otm,
				Joins:         []models.JoinTarget{{DatasetID: events.ID, KeyColumn: "account_id"}},
			},
		}
		ws.Views = append(ws.Views, v)
		return v
	}

	expand := makeView(models.OneToManyExpand)
	first := makeView(models.OneToManyFirstMatch)

	src, ok := Materialize(ws, models.SourceTypeView, expand.ID)
	require.True(t, ok)
	require.Equal(t, 2, src.RowCount)
	assert.Equal(t, "open", src.Records[0]["kind"])
	assert.Equal(t, "close", src.Records[1]["kind"])

	src, ok = Materialize(ws, models.SourceTypeView, first.ID)
	require.True(t, ok)
	require.Equal(t, 1, src.RowCount)
	// First match in target record order.
	assert.Equal(t, "open", src.Records[0]["kind"])
}

func TestMaterialize_StarJoinTargetsIndependent(t *testing.T) {
	base := newDataset("base", []string{"k"}, []models.Record{
		{"k": "x"},
	})
	t1 := newDataset("t1", []string{"k", "v1"}, []models.Record{
		{"k": "x", "v1": "a"}, {"k": "x", "v1": "b"},
	})
	t2 := newDataset("t2", []string{"k", "v2"}, []models.Record{
		{"k": "x", "v2": "p"}, {"k": "x", "v2": "q"},
	})
	ws := newWorkspace(base, t1, t2)
	view := &models.View{
		ID:          uuid.New(),
		CombineMode: models.CombineJoinByKey,
		Columns: []models.ViewColumn{
			{DatasetID: base.ID, SourceColumn: "k", Alias: "k"},
			{DatasetID: t1.ID, SourceColumn: "v1", Alias: "v1"},
			{DatasetID: t2.ID, SourceColumn: "v2", Alias: "v2"},
		},
		JoinConfig: &models.JoinConfig{
			BaseDatasetID: base.ID,
			BaseKeyColumn: "k",
			JoinType:      models.JoinInner,
			OneToManyMode: models.OneToManyExpand,
			Joins: []models.JoinTarget{
				{DatasetID: t1.ID, KeyColumn: "k"},
				{DatasetID: t2.ID, KeyColumn: "k"},
			},
		},
	}
	ws.Views = append(ws.Views, view)

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	// Cartesian expansion across independent targets: 2 x 2 rows.
	assert.Equal(t, 4, src.RowCount)
}

func TestMaterialize_StaleViewDegradesToEmpty(t *testing.T) {
	ds := newDataset("gone", []string{"a"}, []models.Record{{"a": "1"}})
	ws := newWorkspace(ds)
	view := &models.View{
		ID:          uuid.New(),
		Name:        "stale",
		CombineMode: models.CombineRowIndex,
		Columns: []models.ViewColumn{
			{DatasetID: ds.ID, SourceColumn: "a", Alias: "a"},
		},
	}
	ws.Views = append(ws.Views, view)

	// Delete the dataset out from under the view.
	ws.Datasets = nil

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	assert.Equal(t, 0, src.RowCount)
	assert.Empty(t, src.Records)
	// Schema is still reported so callers can render headers.
	assert.Equal(t, []string{"a"}, src.Columns)
}

func TestMaterialize_JoinViewWithoutConfigIsEmpty(t *testing.T) {
	ds := newDataset("d", []string{"a"}, []models.Record{{"a": "1"}})
	ws := newWorkspace(ds)
	view := &models.View{
		ID:          uuid.New(),
		CombineMode: models.CombineJoinByKey,
		Columns: []models.ViewColumn{
			{DatasetID: ds.ID, SourceColumn: "a", Alias: "a"},
		},
	}
	ws.Views = append(ws.Views, view)

	src, ok := Materialize(ws, models.SourceTypeView, view.ID)
	require.True(t, ok)
	assert.Equal(t, 0, src.RowCount)
}
