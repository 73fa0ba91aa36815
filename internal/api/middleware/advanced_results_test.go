// server/internal/api/middleware/advanced_results_test.go
package middleware

import (
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter_Equality(t *testing.T) {
	values := url.Values{}
	values.Set("housing", "true")
	values.Set("city", "Boston")
	values.Set("averageCost", "10000")

	filter := BuildFilter(values)

	// Typed values match either the coerced or the raw form.
	assert.Equal(t, bson.M{"$in": []interface{}{true, "true"}}, filter["housing"])
	assert.Equal(t, "Boston", filter["city"])
	assert.Equal(t, bson.M{"$in": []interface{}{10000, "10000"}}, filter["averageCost"])
}

func TestBuildFilter_LeadingZeroStillMatchesString(t *testing.T) {
	values := url.Values{}
	values.Set("zipcode", "02881")

	filter := BuildFilter(values)

	assert.Equal(t, bson.M{"$in": []interface{}{2881, "02881"}}, filter["zipcode"])
}

func TestBuildFilter_Operators(t *testing.T) {
	values := url.Values{}
	values.Set("tuition[gt]", "1000")
	values.Set("averageCost[lte]", "10000")

	filter := BuildFilter(values)

	assert.Equal(t, bson.M{"$gt": 1000}, filter["tuition"])
	assert.Equal(t, bson.M{"$lte": 10000}, filter["averageCost"])
}

func TestBuildFilter_CombinedOperatorsOnOneField(t *testing.T) {
	values := url.Values{}
	values.Set("tuition[gte]", "1000")
	values.Set("tuition[lte]", "5000")

	filter := BuildFilter(values)

	assert.Equal(t, bson.M{"$gte": 1000, "$lte": 5000}, filter["tuition"])
}

func TestBuildFilter_InOperatorSplitsOnCommas(t *testing.T) {
	values := url.Values{}
	values.Set("careers[in]", "Business,Web Development")

	filter := BuildFilter(values)

	assert.Equal(t, bson.M{"$in": []interface{}{"Business", "Web Development"}}, filter["careers"])
}

func TestBuildFilter_UnknownOperatorNeverPromoted(t *testing.T) {
	values := url.Values{}
	values.Set("tuition[ne]", "1000")
	values.Set("password[regex]", ".*")

	filter := BuildFilter(values)

	assert.Empty(t, filter)
}

func TestBuildFilter_ReservedKeysSkipped(t *testing.T) {
	values := url.Values{}
	values.Set("select", "name")
	values.Set("sort", "-createdAt")
	values.Set("page", "2")
	values.Set("limit", "10")

	filter := BuildFilter(values)

	assert.Empty(t, filter)
}

func TestBuildSort_Default(t *testing.T) {
	sort := BuildSort("")

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sort)
}

func TestBuildSort_MultiKey(t *testing.T) {
	sort := BuildSort("name,-createdAt")

	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "createdAt", Value: -1},
	}, sort)
}

func TestBuildProjection(t *testing.T) {
	assert.Nil(t, BuildProjection(""))

	projection := BuildProjection("name,description")
	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "description", Value: 1},
	}, projection)
}

func TestParsePagination_Defaults(t *testing.T) {
	page, limit := ParsePagination("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, limit)

	page, limit = ParsePagination("0", "-5")
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, limit)

	page, limit = ParsePagination("abc", "xyz")
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, limit)
}

func TestParsePagination_Values(t *testing.T) {
	page, limit := ParsePagination("3", "10")
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, limit)
}

func TestBuildPagination_NextAndPrev(t *testing.T) {
	// page 2 of 3: both next and prev
	pagination := BuildPagination(2, 10, 10, 25)
	assert.Equal(t, gin.H{"page": 3, "limit": 10}, pagination["next"])
	assert.Equal(t, gin.H{"page": 1, "limit": 10}, pagination["prev"])
}

func TestBuildPagination_FirstPage(t *testing.T) {
	pagination := BuildPagination(1, 10, 0, 25)
	_, hasPrev := pagination["prev"]
	assert.False(t, hasPrev)
	_, hasNext := pagination["next"]
	assert.True(t, hasNext)
}

func TestBuildPagination_LastPage(t *testing.T) {
	pagination := BuildPagination(3, 10, 20, 25)
	_, hasNext := pagination["next"]
	assert.False(t, hasNext)
	_, hasPrev := pagination["prev"]
	assert.True(t, hasPrev)
}

func TestBuildPagination_ExactBoundary(t *testing.T) {
	// skip+limit == total: no next page
	pagination := BuildPagination(1, 25, 0, 25)
	_, hasNext := pagination["next"]
	assert.False(t, hasNext)
}
