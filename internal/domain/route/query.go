package route

import "strings"

// Tag names one filter the classifier can select.
type Tag string

const (
	TagLocNoidaGurgaon    Tag = "LOC_NOIDA_GURGAON"
	TagLocWhitefieldECity Tag = "LOC_WHITEFIELD_ECITY"
	TagLocAndheriBKC      Tag = "LOC_ANDHERI_BKC"
	TagAvailSeats         Tag = "AVAIL_SEATS"
	TagStatusActive       Tag = "STATUS_ACTIVE"
)

type keywordRule struct {
	tag      Tag
	keywords []string
}

// Location rules are mutually exclusive and checked in this order.
var locationRules = []keywordRule{
	{TagLocNoidaGurgaon, []string{"noida", "gurgaon"}},
	{TagLocWhitefieldECity, []string{"whitefield", "electronic city"}},
	{TagLocAndheriBKC, []string{"andheri", "bkc", "bandra"}},
}

// Independent rules, each checked regardless of the others.
var independentRules = []keywordRule{
	{TagAvailSeats, []string{"available seats", "seats available"}},
	{TagStatusActive, []string{"active", "right now"}},
}

// Classify maps free text to the ordered list of filter tags it selects.
// At most one location tag is returned, always first. Unmatched text yields
// an empty list.
func Classify(query string) []Tag {
	text := strings.ToLower(query)
	tags := make([]Tag, 0, 3)

	for _, rule := range locationRules {
		if containsAny(text, rule.keywords) {
			tags = append(tags, rule.tag)
			break
		}
	}
	for _, rule := range independentRules {
		if containsAny(text, rule.keywords) {
			tags = append(tags, rule.tag)
		}
	}
	return tags
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
