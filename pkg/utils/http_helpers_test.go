package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.Empty(t, filter.Filter)
	assert.Empty(t, filter.Sort)
}

func TestParseFilterFromQuery_Pagination(t *testing.T) {
	values := url.Values{}
	values.Set("perPage", "50")
	values.Set("page", "3")

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 100, filter.Offset, "offset = (page-1)*limit")
}

func TestParseFilterFromQuery_LimitClamped(t *testing.T) {
	values := url.Values{}
	values.Set("perPage", "100000")

	filter := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, filter.Limit, "perPage ограничивается сверху")
}

func TestParseFilterFromQuery_FiltersAndSort(t *testing.T) {
	values := url.Values{}
	values.Set("filter[status]", "NEW")
	values.Set("filter[teamId]", "7")
	values.Set("sort[created_at]", "desc")
	values.Set("sort[bad]", "sideways")

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "NEW", filter.Filter["status"])
	assert.Equal(t, "7", filter.Filter["teamId"])
	assert.Equal(t, "desc", filter.Sort["created_at"])
	_, ok := filter.Sort["bad"]
	assert.False(t, ok, "некорректное направление сортировки игнорируется")
}

func TestParseFilterFromQuery_BadNumbersIgnored(t *testing.T) {
	values := url.Values{}
	values.Set("perPage", "abc")
	values.Set("page", "-2")

	filter := ParseFilterFromQuery(values)
	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
}
