package solr

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/takatori/threadsearch/internal/search"
)

// transformSearchResponse converts a JSON Request API response into a Result.
// Documents that cannot be read are skipped.
func transformSearchResponse(res map[string]interface{}) search.Result {
	body, ok := res["response"].(map[string]interface{})
	if !ok {
		return search.Result{}
	}

	result := search.Result{
		Total: toInt(body["numFound"]),
	}

	docs, ok := body["docs"].([]interface{})
	if !ok {
		return result
	}
	result.Documents = make([]search.Document, 0, len(docs))
	for _, d := range docs {
		doc, ok := d.(map[string]interface{})
		if !ok {
			continue
		}
		converted, ok := transformDocument(doc)
		if !ok {
			slog.Warn("skipping document without id", "doc", doc)
			continue
		}
		result.Documents = append(result.Documents, converted)
	}
	return result
}

// transformDocument reads a stored document. Fields may come back
// multi-valued when the collection schema was guessed by Solr; the first
// value wins.
func transformDocument(doc map[string]interface{}) (search.Document, bool) {
	id := firstString(doc["id"])
	if id == "" {
		return search.Document{}, false
	}
	converted := search.Document{
		ID:       id,
		ThreadID: firstString(doc["thread_id"]),
		Author:   firstString(doc["author"]),
		Text:     firstString(doc["text"]),
	}
	if posted := firstString(doc["posted_at"]); posted != "" {
		if t, err := time.Parse(time.RFC3339, posted); err == nil {
			converted.PostedAt = t.UTC()
		}
	}
	return converted, true
}

func firstString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []interface{}:
		if len(val) == 0 {
			return ""
		}
		return firstString(val[0])
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	}
	return 0
}
