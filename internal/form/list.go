package form

import (
	"fmt"
	"strings"

	"skillshare/internal/model"
)

// ListField is an editable list of text inputs, such as a progress update's
// challenges. It always holds at least one entry.
type ListField []string

// NewListField returns a list holding values, or a single blank entry.
func NewListField(values ...string) ListField {
	if len(values) == 0 {
		return ListField{""}
	}
	return append(ListField(nil), values...)
}

// Add appends a blank entry.
func (l *ListField) Add() {
	*l = append(*l, "")
}

func (l *ListField) Set(i int, v string) error {
	if i < 0 || i >= len(*l) {
		return fmt.Errorf("list index %d out of range", i)
	}
	(*l)[i] = v
	return nil
}

// Remove deletes entry i. The last remaining entry cannot be removed.
func (l *ListField) Remove(i int) error {
	if len(*l) <= 1 {
		return model.ErrListFloor
	}
	if i < 0 || i >= len(*l) {
		return fmt.Errorf("list index %d out of range", i)
	}
	next := make(ListField, 0, len(*l)-1)
	next = append(next, (*l)[:i]...)
	next = append(next, (*l)[i+1:]...)
	*l = next
	return nil
}

// Values returns a copy of every entry, blanks included.
func (l ListField) Values() []string {
	return append([]string(nil), l...)
}

// Pruned drops blank entries. Blanks are not a validation failure; they are
// simply not submitted.
func (l ListField) Pruned() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
