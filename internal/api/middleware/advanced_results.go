// server/internal/api/middleware/advanced_results.go
package middleware

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devcamper-api-server/internal/apperror"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdvancedResultsKey is the gin context key the result envelope is stored under.
const AdvancedResultsKey = "advancedResults"

const (
	defaultPage  = 1
	defaultLimit = 25
)

// ListSpec configures AdvancedResults for one route: which collection to
// query and whether to join the referenced bootcamp's name and description
// into each result.
type ListSpec struct {
	Collection string
	Populate   bool
}

// Comparison tokens that may appear in a filter key, e.g. tuition[gt]=1000.
// Anything else is never promoted to an operator.
var filterOperators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// AdvancedResults turns the query string into a filtered, sorted and
// paginated Mongo query, runs it and leaves the response envelope in the
// context for the handler to forward.
func AdvancedResults(db *mongo.Database, spec ListSpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		values := c.Request.URL.Query()

		filter := BuildFilter(values)
		page, limit := ParsePagination(values.Get("page"), values.Get("limit"))
		skip := int64(page-1) * int64(limit)

		findOpts := options.Find().
			SetSort(BuildSort(values.Get("sort"))).
			SetSkip(skip).
			SetLimit(int64(limit))

		if projection := BuildProjection(values.Get("select")); len(projection) > 0 {
			findOpts.SetProjection(projection)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		collection := db.Collection(spec.Collection)

		total, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			abortWithError(c, apperror.ServerError("Failed to count documents"))
			return
		}

		cursor, err := collection.Find(ctx, filter, findOpts)
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer cursor.Close(ctx)

		results := []bson.M{}
		if err = cursor.All(ctx, &results); err != nil {
			abortWithError(c, err)
			return
		}

		if spec.Populate {
			if err := PopulateBootcamps(ctx, db, results); err != nil {
				abortWithError(c, err)
				return
			}
		}

		c.Set(AdvancedResultsKey, gin.H{
			"success":    true,
			"count":      len(results),
			"pagination": BuildPagination(page, limit, skip, total),
			"data":       results,
		})
		c.Next()
	}
}

// BuildFilter translates the remaining query parameters into a Mongo filter.
// select/sort/page/limit are reserved, plain keys become equality matches
// and keys of the form field[op] become comparison operators.
func BuildFilter(values url.Values) bson.M {
	filter := bson.M{}

	for key := range values {
		switch key {
		case "select", "sort", "page", "limit":
			continue
		}

		value := values.Get(key)

		field, op, hasOp := parseFilterKey(key)
		if !hasOp {
			filter[key] = equalityValue(value)
			continue
		}

		mongoOp, ok := filterOperators[op]
		if !ok {
			// Unknown operator token, drop the parameter entirely.
			continue
		}

		condition, exists := filter[field].(bson.M)
		if !exists {
			condition = bson.M{}
		}

		if mongoOp == "$in" {
			parts := strings.Split(value, ",")
			list := make([]interface{}, 0, len(parts))
			for _, part := range parts {
				list = append(list, coerceValue(part))
			}
			condition[mongoOp] = list
		} else {
			condition[mongoOp] = coerceValue(value)
		}

		filter[field] = condition
	}

	return filter
}

// BuildSort parses a comma separated sort list, "-" prefix means
// descending. Defaults to newest first.
func BuildSort(sortParam string) bson.D {
	if sortParam == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	sort := bson.D{}
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}

	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sort
}

// BuildProjection turns select=a,b,c into an inclusion projection.
func BuildProjection(selectParam string) bson.D {
	if selectParam == "" {
		return nil
	}

	projection := bson.D{}
	for _, field := range strings.Split(selectParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		projection = append(projection, bson.E{Key: field, Value: 1})
	}
	return projection
}

// ParsePagination applies the page=1 limit=25 defaults and rejects
// non-positive values.
func ParsePagination(pageParam, limitParam string) (page, limit int) {
	page = defaultPage
	if parsed, err := strconv.Atoi(pageParam); err == nil && parsed > 0 {
		page = parsed
	}

	limit = defaultLimit
	if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
		limit = parsed
	}

	return page, limit
}

// BuildPagination adds next/prev descriptors only when they apply.
func BuildPagination(page, limit int, skip, total int64) gin.H {
	pagination := gin.H{}

	if skip+int64(limit) < total {
		pagination["next"] = gin.H{"page": page + 1, "limit": limit}
	}
	if page > 1 {
		pagination["prev"] = gin.H{"page": page - 1, "limit": limit}
	}

	return pagination
}

// parseFilterKey splits "tuition[gt]" into ("tuition", "gt", true).
func parseFilterKey(key string) (field, op string, hasOp bool) {
	open := strings.Index(key, "[")
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// equalityValue matches either the typed or the raw form of the value, so
// zipcode=02881 still matches a stored string while housing=true matches
// the stored boolean.
func equalityValue(value string) interface{} {
	coerced := coerceValue(value)
	if _, isString := coerced.(string); isString {
		return coerced
	}
	return bson.M{"$in": []interface{}{coerced, value}}
}

// coerceValue turns query string values into the types Mongo can compare:
// numbers and booleans when they parse, strings otherwise.
func coerceValue(value string) interface{} {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		return parsed
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}
	return value
}

// PopulateBootcamps joins name and description of each referenced bootcamp
// into the result documents, replacing the raw reference id.
func PopulateBootcamps(ctx context.Context, db *mongo.Database, results []bson.M) error {
	ids := make([]primitive.ObjectID, 0, len(results))
	seen := map[primitive.ObjectID]bool{}
	for _, result := range results {
		id, ok := result["bootcamp"].(primitive.ObjectID)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil
	}

	cursor, err := db.Collection("bootcamps").Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
		}),
	)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var bootcamps []bson.M
	if err = cursor.All(ctx, &bootcamps); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]bson.M, len(bootcamps))
	for _, bootcamp := range bootcamps {
		if id, ok := bootcamp["_id"].(primitive.ObjectID); ok {
			byID[id] = bootcamp
		}
	}

	for _, result := range results {
		if id, ok := result["bootcamp"].(primitive.ObjectID); ok {
			if bootcamp, found := byID[id]; found {
				result["bootcamp"] = bootcamp
			}
		}
	}

	return nil
}
