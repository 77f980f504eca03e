package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id   int
	name string
	city string
	rank int
}

var rowSpec = Spec[row]{
	Identity: func(r row) int { return r.id },
	Filter: []Field[row]{
		{Name: "name", Value: func(r row) string { return r.name }},
		{Name: "city", Value: func(r row) string { return r.city }},
	},
	Sort: []SortKey[row]{
		{Name: "id", Compare: ByInt(func(r row) int { return r.id })},
		{Name: "name", Compare: ByString(func(r row) string { return r.name })},
		{Name: "rank_order", Compare: ByInt(func(r row) int { return r.rank })},
	},
}

func sampleRows() []row {
	return []row{
		{id: 3, name: "Pretzel", city: "Berlin", rank: 1},
		{id: 1, name: "soup", city: "Oslo", rank: 2},
		{id: 2, name: "Bagel", city: "Boston", rank: 1},
		{id: 4, name: "Apple Pie", city: "Austin", rank: 2},
	}
}

func ids(rows []row) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.id)
	}
	return out
}

func TestShapeDefaultsToIdentityAscending(t *testing.T) {
	res, err := Shape(sampleRows(), rowSpec, Params{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(res.Items))
	assert.Equal(t, 4, res.Total)
}

func TestShapeUnknownSortKeyFallsBackToIdentity(t *testing.T) {
	for _, key := range []string{"", "salary", "nam"} {
		res, err := Shape(sampleRows(), rowSpec, Params{Sort: key, Descending: true})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, ids(res.Items), "key %q", key)
	}
}

func TestShapeSortKeyMatchesCaseInsensitively(t *testing.T) {
	for _, key := range []string{"name", "NAME", "Name"} {
		res, err := Shape(sampleRows(), rowSpec, Params{Sort: key})
		require.NoError(t, err)
		assert.Equal(t, []int{4, 2, 3, 1}, ids(res.Items), "key %q", key)
	}
	res, err := Shape(sampleRows(), rowSpec, Params{Sort: "RankOrder"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 4}, ids(res.Items))
}

func TestShapeDescendingIsStable(t *testing.T) {
	res, err := Shape(sampleRows(), rowSpec, Params{Sort: "rank_order", Descending: true})
	require.NoError(t, err)
	// ties keep their input order
	assert.Equal(t, []int{1, 4, 3, 2}, ids(res.Items))
}

func TestShapeFilterIsCaseInsensitiveSubstring(t *testing.T) {
	res, err := Shape(sampleRows(), rowSpec, Params{Filter: "BO"})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids(res.Items))

	res, err = Shape(sampleRows(), rowSpec, Params{Filter: "p"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, ids(res.Items))
	assert.Equal(t, 3, res.Total)

	res, err = Shape(sampleRows(), rowSpec, Params{Filter: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
}

func TestShapePagesPartitionCollection(t *testing.T) {
	records := sampleRows()
	for size := 1; size <= len(records)+1; size++ {
		var seen []int
		for index := 1; ; index++ {
			res, err := Shape(records, rowSpec, Params{Page: &Page{Index: index, Size: size}})
			require.NoError(t, err)
			require.LessOrEqual(t, len(res.Items), size)
			if len(res.Items) == 0 {
				break
			}
			seen = append(seen, ids(res.Items)...)
		}
		assert.Equal(t, []int{1, 2, 3, 4}, seen, "size %d", size)
	}
}

func TestShapeThreeRowPaging(t *testing.T) {
	dishes := []row{{id: 1, name: "A"}, {id: 2, name: "B"}, {id: 3, name: "C"}}

	first, err := Shape(dishes, rowSpec, Params{Page: &Page{Index: 1, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(first.Items))

	second, err := Shape(dishes, rowSpec, Params{Page: &Page{Index: 2, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids(second.Items))

	over, err := Shape(dishes, rowSpec, Params{Page: &Page{Index: len(dishes) + 1, Size: 1}})
	require.NoError(t, err)
	assert.Empty(t, over.Items)
	assert.Equal(t, 3, over.Total)
}

func TestShapeHugePagesStayInRange(t *testing.T) {
	for _, page := range []Page{
		{Index: math.MaxInt64/2 + 2, Size: 3},
		{Index: math.MaxInt64/2 + 2, Size: 4},
		{Index: math.MaxInt, Size: math.MaxInt},
	} {
		res, err := Shape(sampleRows(), rowSpec, Params{Page: &page})
		require.NoError(t, err)
		assert.Empty(t, res.Items, "page %+v", page)
		assert.Equal(t, 4, res.Total)
	}

	res, err := Shape(sampleRows(), rowSpec, Params{Page: &Page{Index: 1, Size: math.MaxInt}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(res.Items))
}

func TestShapeRejectsNonPositivePaging(t *testing.T) {
	for _, page := range []Page{{Index: 0, Size: 2}, {Index: 1, Size: 0}, {Index: -1, Size: 5}, {Index: 2, Size: -3}} {
		_, err := Shape(sampleRows(), rowSpec, Params{Page: &page})
		assert.ErrorIs(t, err, ErrInvalidPage, "page %+v", page)
	}
}

func TestShapeDoesNotMutateInput(t *testing.T) {
	records := sampleRows()
	_, err := Shape(records, rowSpec, Params{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), records)
}

func TestSortKeysListsAllowList(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "rank_order"}, rowSpec.SortKeys())
}
