package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type room struct {
	Name     string
	Location string
}

var roomSpec = Spec[room]{
	SearchFields: []func(room) string{
		func(r room) string { return r.Name },
		func(r room) string { return r.Location },
	},
	SortKeys: map[string]func(a, b room) int{
		"name": func(a, b room) int { return CompareStrings(a.Name, b.Name) },
	},
}

func names(items []room) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.Name
	}
	return out
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	items := []room{{Name: "Room A"}, {Name: "Room B"}, {Name: "Hall C"}}

	got := Filter(items, "room", roomSpec.SearchFields)

	assert.Equal(t, []string{"Room A", "Room B"}, names(got))
}

func TestFilter_EmptyTermMatchesAll(t *testing.T) {
	items := []room{{Name: "Room A"}, {Name: "Hall C"}}

	got := Filter(items, "", roomSpec.SearchFields)

	assert.Len(t, got, 2)
}

func TestFilter_MatchesAnyDesignatedField(t *testing.T) {
	items := []room{
		{Name: "AVR", Location: "Main Building"},
		{Name: "Gym", Location: "Annex"},
	}

	got := Filter(items, "main", roomSpec.SearchFields)

	require.Len(t, got, 1)
	assert.Equal(t, "AVR", got[0].Name)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	items := []room{{Name: "B"}, {Name: "A"}}

	_ = Filter(items, "a", roomSpec.SearchFields)

	assert.Equal(t, []string{"B", "A"}, names(items))
}

func TestSort_AscendingAndDescending(t *testing.T) {
	items := []room{{Name: "Gym"}, {Name: "avr"}, {Name: "Court"}}

	asc := Sort(items, "name", "asc", roomSpec.SortKeys)
	desc := Sort(items, "name", "desc", roomSpec.SortKeys)

	assert.Equal(t, []string{"avr", "Court", "Gym"}, names(asc))
	assert.Equal(t, []string{"Gym", "Court", "avr"}, names(desc))
}

func TestSort_UnknownFieldKeepsOrder(t *testing.T) {
	items := []room{{Name: "B"}, {Name: "A"}}

	got := Sort(items, "capacity", "asc", roomSpec.SortKeys)

	assert.Equal(t, []string{"B", "A"}, names(got))
}

func TestSort_IsStable(t *testing.T) {
	items := []room{
		{Name: "AVR", Location: "first"},
		{Name: "avr", Location: "second"},
	}

	got := Sort(items, "name", "asc", roomSpec.SortKeys)

	// equal keys keep fetch order
	assert.Equal(t, "first", got[0].Location)
	assert.Equal(t, "second", got[1].Location)
}

func TestPaginate_Basics(t *testing.T) {
	items := []room{{Name: "1"}, {Name: "2"}, {Name: "3"}, {Name: "4"}, {Name: "5"}}

	res := Paginate(items, 2, 2)

	assert.Equal(t, []string{"3", "4"}, names(res.Items))
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.PageSize)
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	items := []room{{Name: "1"}, {Name: "2"}, {Name: "3"}}

	res := Paginate(items, 99, 2)

	assert.Equal(t, 2, res.Page)
	assert.Equal(t, []string{"3"}, names(res.Items))
}

func TestPaginate_EmptySet(t *testing.T) {
	res := Paginate([]room{}, 3, 10)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Page)
}

func TestPaginate_DefaultAndCappedPageSize(t *testing.T) {
	items := make([]room, 150)

	res := Paginate(items, 1, 0)
	assert.Equal(t, DefaultPageSize, res.PageSize)

	res = Paginate(items, 1, 1000)
	assert.Equal(t, MaxPageSize, res.PageSize)
}

func TestApply_SearchKeepsRequestedPage(t *testing.T) {
	items := make([]room, 0, 13)
	for i := 1; i <= 12; i++ {
		items = append(items, room{Name: fmt.Sprintf("Room %02d", i)})
	}
	items = append(items, room{Name: "Hall"})

	res := Apply(items, Query{Search: "room", Page: 2, PageSize: 10}, roomSpec)

	assert.Equal(t, 2, res.Page)
	assert.Equal(t, []string{"Room 11", "Room 12"}, names(res.Items))
	assert.Equal(t, 12, res.Total)
}

func TestApply_SearchClampsPastLastPage(t *testing.T) {
	items := []room{{Name: "Room A"}, {Name: "Room B"}, {Name: "Hall C"}}

	res := Apply(items, Query{Search: "room", Page: 7, PageSize: 10}, roomSpec)

	assert.Equal(t, 1, res.Page)
	assert.Equal(t, []string{"Room A", "Room B"}, names(res.Items))
	assert.Equal(t, 2, res.Total)
}

func TestApply_FullPipeline(t *testing.T) {
	items := []room{
		{Name: "Room C"}, {Name: "Room A"}, {Name: "Hall"}, {Name: "Room B"},
	}

	res := Apply(items, Query{Search: "room", SortField: "name", SortOrder: "desc", PageSize: 2}, roomSpec)

	assert.Equal(t, []string{"Room C", "Room B"}, names(res.Items))
	assert.Equal(t, 3, res.Total)
}
