package classifier

import "sort"

// LabelEncoder maps tags to contiguous class indices. Classes are sorted,
// so the same set of tags always gets the same encoding.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabels builds an encoder over the distinct values of tags.
func FitLabels(tags []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(tags))
	classes := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		classes = append(classes, tag)
	}
	sort.Strings(classes)
	return NewLabelEncoder(classes)
}

// NewLabelEncoder restores an encoder from an already ordered class list.
func NewLabelEncoder(classes []string) *LabelEncoder {
	e := &LabelEncoder{
		classes: make([]string, len(classes)),
		index:   make(map[string]int, len(classes)),
	}
	copy(e.classes, classes)
	for i, c := range e.classes {
		e.index[c] = i
	}
	return e
}

func (e *LabelEncoder) Len() int {
	return len(e.classes)
}

// Classes returns a copy of the ordered class list.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

func (e *LabelEncoder) Encode(tag string) (int, bool) {
	i, ok := e.index[tag]
	return i, ok
}

// EncodeAll encodes tags that are all known to the encoder.
func (e *LabelEncoder) EncodeAll(tags []string) []int {
	out := make([]int, len(tags))
	for i, tag := range tags {
		out[i] = e.index[tag]
	}
	return out
}

// Decode returns the tag of class i, or "" when i is out of range.
func (e *LabelEncoder) Decode(i int) string {
	if i < 0 || i >= len(e.classes) {
		return ""
	}
	return e.classes[i]
}
