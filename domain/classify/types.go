package classify

import (
	"context"
	"image"
)

// Category enumerates the four classification buckets.
type Category int

const (
	CategoryA Category = iota
	CategoryB
	CategoryC
	CategoryD
)

// NumCategories is the size of the fixed category set.
const NumCategories = 4

// Categories lists every category in display order.
var Categories = [NumCategories]Category{CategoryA, CategoryB, CategoryC, CategoryD}

func (c Category) String() string {
	switch c {
	case CategoryA:
		return "A"
	case CategoryB:
		return "B"
	case CategoryC:
		return "C"
	case CategoryD:
		return "D"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool { return c >= CategoryA && c <= CategoryD }

// Counts maps each category to a non-negative count. It is a value type so a
// produced result cannot be mutated through another holder.
type Counts [NumCategories]int

// Get returns the count for c (zero for an unknown category).
func (c Counts) Get(cat Category) int {
	if !cat.Valid() {
		return 0
	}
	return c[cat]
}

// Total sums all categories.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// ClassifierID names a (mocked) classification profile.
type ClassifierID string

const (
	KNNCosine  ClassifierID = "knn-cosine"
	KNNCubic   ClassifierID = "knn-cubic"
	NaiveBayes ClassifierID = "naive-bayes"
)

// Classifiers lists the selectable identifiers in display order.
var Classifiers = []ClassifierID{KNNCosine, KNNCubic, NaiveBayes}

// DisplayName returns the human readable classifier name, or the raw id for
// identifiers outside the known set.
func (id ClassifierID) DisplayName() string {
	switch id {
	case KNNCosine:
		return "KNN Cosine"
	case KNNCubic:
		return "KNN Cubic"
	case NaiveBayes:
		return "Naive Bayes"
	default:
		return string(id)
	}
}

// ParseClassifier resolves either an identifier or a display name.
func ParseClassifier(s string) (ClassifierID, bool) {
	for _, id := range Classifiers {
		if s == string(id) || s == id.DisplayName() {
			return id, true
		}
	}
	return "", false
}

// Classifier produces category counts for an image. Implementations must
// honour ctx cancellation; img may be any decoded image.
type Classifier interface {
	Classify(ctx context.Context, img image.Image, id ClassifierID) (Counts, error)
}
