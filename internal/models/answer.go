package models

import "slices"

// Answer is either a single value or a set of values. The zero value is an
// empty single answer.
type Answer struct {
	values []string
	multi  bool
}

func SingleAnswer(value string) Answer {
	if value == "" {
		return Answer{}
	}
	return Answer{values: []string{value}}
}

// MultiAnswer builds a set answer; duplicates are dropped and first-seen
// order is kept.
func MultiAnswer(values ...string) Answer {
	out := Answer{multi: true}
	for _, v := range values {
		if !slices.Contains(out.values, v) {
			out.values = append(out.values, v)
		}
	}
	return out
}

func (a Answer) IsMulti() bool {
	return a.multi
}

func (a Answer) IsEmpty() bool {
	return len(a.values) == 0
}

// Value returns the single value, or "" for set answers.
func (a Answer) Value() string {
	if a.multi || len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

// Values returns every value; a single answer yields a one element slice.
func (a Answer) Values() []string {
	return slices.Clone(a.values)
}

func (a Answer) Contains(value string) bool {
	return slices.Contains(a.values, value)
}

// Toggle adds or removes one value from a set answer. A single answer is
// promoted to a set first.
func (a Answer) Toggle(value string, on bool) Answer {
	out := MultiAnswer(a.values...)
	if on {
		if !out.Contains(value) {
			out.values = append(out.values, value)
		}
		return out
	}
	out.values = slices.DeleteFunc(out.values, func(v string) bool { return v == value })
	return out
}

func (a Answer) Clone() Answer {
	return Answer{values: slices.Clone(a.values), multi: a.multi}
}

func (a Answer) Equal(b Answer) bool {
	return a.multi == b.multi && slices.Equal(a.values, b.values)
}

// AnswerSet holds the recorded answers keyed by question id.
type AnswerSet map[string]Answer
