package solr

import (
	"github.com/takatori/threadsearch/internal/query"
	"github.com/takatori/threadsearch/internal/search"
)

const matchAll = "*:*"

// solrOperators maps expansion operators onto Solr JSON Query DSL bool keys.
var solrOperators = map[query.Operator]string{
	query.OpMust:      "must",
	query.OpShould:    "should",
	query.OpShouldNot: "must_not",
}

// transformSearchRequest generates a JSON Request API body for the query.
func transformSearchRequest(q *query.Node, opts search.Options) map[string]interface{} {
	request := map[string]interface{}{
		"query": transformQuery(q.Expand()),
		"limit": defaultLimit(opts.Limit),
	}
	if opts.Offset > 0 {
		request["offset"] = opts.Offset
	}
	return request
}

// transformQuery converts an expansion into a Solr bool query. Literal
// clauses use the field query parser so terms are analysed like the indexed
// text; nested groups become nested bool queries.
func transformQuery(e query.Expansion) interface{} {
	if len(e) == 0 {
		return matchAll
	}

	boolQuery := map[string]interface{}{}
	for _, op := range query.Operators {
		clauses, ok := e[op]
		if !ok {
			continue
		}
		list := make([]interface{}, 0, len(clauses))
		for _, c := range clauses {
			list = append(list, transformClause(c))
		}
		boolQuery[solrOperators[op]] = list
	}

	// a bool query with only negative clauses matches nothing in Lucene
	_, hasMust := boolQuery["must"]
	_, hasShould := boolQuery["should"]
	if !hasMust && !hasShould {
		boolQuery["must"] = []interface{}{matchAll}
	}

	return map[string]interface{}{
		"bool": boolQuery,
	}
}

func transformClause(c query.Clause) interface{} {
	if c.IsGroup() {
		return transformQuery(c.Group)
	}
	return map[string]interface{}{
		"field": map[string]interface{}{
			"f":     c.Field,
			"query": c.Term,
		},
	}
}

// defaultLimit returns the limit or 10 if unset.
func defaultLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}
