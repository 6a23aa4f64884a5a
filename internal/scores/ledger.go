// Package scores keeps the ranked list of winning runs.
package scores

import (
	"cmp"
	"slices"
)

// DefaultLimit is the number of records kept when no limit is given.
const DefaultLimit = 5

// Record is one winning run.
type Record struct {
	Name  string `json:"name"`
	Days  int    `json:"days"`
	Steps int    `json:"steps"`
	GP    int    `json:"gp"`
}

// Compare orders records best first: fewer days, then fewer steps, then
// more GP.
func Compare(a, b Record) int {
	if c := cmp.Compare(a.Days, b.Days); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Steps, b.Steps); c != 0 {
		return c
	}
	return cmp.Compare(b.GP, a.GP)
}

// Ledger is a sorted, bounded list of records.
type Ledger struct {
	limit   int
	records []Record
}

// NewLedger creates an empty ledger holding at most limit records.
func NewLedger(limit int) *Ledger {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Ledger{limit: limit}
}

// Add inserts a record, re-sorts and truncates. It returns the record's
// 1-based rank, or 0 if it did not make the list.
func (l *Ledger) Add(r Record) int {
	l.records = append(l.records, r)
	slices.SortStableFunc(l.records, Compare)

	rank := 0
	for i := range l.records {
		if l.records[i] == r {
			rank = i + 1
			break
		}
	}
	if len(l.records) > l.limit {
		l.records = l.records[:l.limit]
	}
	if rank > l.limit {
		rank = 0
	}
	return rank
}

// Records returns a copy of the ranked records.
func (l *Ledger) Records() []Record {
	return slices.Clone(l.records)
}

// Replace swaps in a stored list, re-establishing order and the limit.
func (l *Ledger) Replace(records []Record) {
	l.records = slices.Clone(records)
	slices.SortStableFunc(l.records, Compare)
	if len(l.records) > l.limit {
		l.records = l.records[:l.limit]
	}
}

// Merge adds the records that are not already present, such as the scores
// carried in by a loaded save.
func (l *Ledger) Merge(records []Record) {
	for _, r := range records {
		if !slices.Contains(l.records, r) {
			l.records = append(l.records, r)
		}
	}
	l.Replace(l.records)
}

// Len returns the number of records held.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Limit returns the maximum number of records held.
func (l *Ledger) Limit() int {
	return l.limit
}
