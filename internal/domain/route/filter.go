package route

import "strings"

// Predicate reports whether a route survives a filter.
type Predicate func(*Record) bool

var predicates = map[Tag]Predicate{
	TagLocNoidaGurgaon: func(r *Record) bool {
		return containsFold(r.from, "noida") || containsFold(r.to, "gurgaon")
	},
	TagLocWhitefieldECity: func(r *Record) bool {
		return containsFold(r.from, "whitefield") || containsFold(r.to, "electronic city")
	},
	TagLocAndheriBKC: func(r *Record) bool {
		return containsFold(r.from, "andheri") || containsFold(r.to, "bkc") || containsFold(r.to, "bandra")
	},
	TagAvailSeats: func(r *Record) bool {
		return r.availableSeats > 0
	},
	TagStatusActive: func(r *Record) bool {
		return r.status == StatusActive
	},
}

// PredicateFor returns the predicate for tag, or nil for an unknown tag.
func PredicateFor(tag Tag) Predicate {
	return predicates[tag]
}

// Apply narrows records by each tag in order; every tag filters the output of
// the previous one. Order of the input is preserved. No tags returns the input.
func Apply(records []*Record, tags []Tag) []*Record {
	working := records
	for _, tag := range tags {
		pred := predicates[tag]
		if pred == nil {
			continue
		}
		next := make([]*Record, 0, len(working))
		for _, r := range working {
			if pred(r) {
				next = append(next, r)
			}
		}
		working = next
	}

	out := make([]*Record, len(working))
	copy(out, working)
	return out
}

// Search classifies query and filters the catalog with the resulting tags.
func (c *Catalog) Search(query string) ([]Tag, []*Record) {
	tags := Classify(query)
	return tags, Apply(c.records, tags)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
