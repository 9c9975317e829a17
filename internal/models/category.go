package models

import "fmt"

// DefaultCategoryLabels is the display-ordered list of article categories.
var DefaultCategoryLabels = []string{
	"Breaking News",
	"Mumbai",
	"National News",
	"International News",
	"Finance",
	"Aviation",
	"Technology",
	"Sports",
	"Entertainment",
	"Opinion",
}

// CategorySet is a closed, ordered set of category labels. It is built once
// from configuration and shared by the query service and the feed consumer.
type CategorySet struct {
	labels []string
	index  map[string]int
}

// NewCategorySet builds a set from labels, keeping their order.
// Empty or duplicate labels are rejected.
func NewCategorySet(labels []string) (CategorySet, error) {
	set := CategorySet{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
	}

	for _, label := range labels {
		if label == "" {
			return CategorySet{}, fmt.Errorf("empty category label at position %d", len(set.labels))
		}

		if _, dup := set.index[label]; dup {
			return CategorySet{}, fmt.Errorf("duplicate category label %q", label)
		}

		set.index[label] = len(set.labels)
		set.labels = append(set.labels, label)
	}

	if len(set.labels) == 0 {
		return CategorySet{}, fmt.Errorf("category set is empty")
	}

	return set, nil
}

// DefaultCategories returns the set built from DefaultCategoryLabels.
func DefaultCategories() CategorySet {
	set, err := NewCategorySet(DefaultCategoryLabels)
	if err != nil {
		panic(err)
	}

	return set
}

// Contains reports whether label is a member of the set (exact match).
func (s CategorySet) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}

// Labels returns a copy of the labels in display order.
func (s CategorySet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)

	return out
}

// Len returns the number of categories.
func (s CategorySet) Len() int {
	return len(s.labels)
}
