package forum

import (
	"strconv"
	"time"
)

// Item is one object of the forum item API: a story, a comment or a job.
type Item struct {
	ID      int64   `json:"id"`
	By      string  `json:"by"`
	Type    string  `json:"type"`
	Time    int64   `json:"time"`
	Text    string  `json:"text"`
	Title   string  `json:"title"`
	Parent  int64   `json:"parent"`
	Kids    []int64 `json:"kids"`
	Deleted bool    `json:"deleted"`
	Dead    bool    `json:"dead"`
}

func (i Item) Key() string {
	return strconv.FormatInt(i.ID, 10)
}

func (i Item) PostedAt() time.Time {
	if i.Time == 0 {
		return time.Time{}
	}
	return time.Unix(i.Time, 0).UTC()
}

// Removed reports whether the item was deleted or flagged dead by moderators.
func (i Item) Removed() bool {
	return i.Deleted || i.Dead
}
