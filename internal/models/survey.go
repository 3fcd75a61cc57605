package models

import "slices"

// The type of question being asked.
type QuestionType string

const (
	MultipleChoice QuestionType = "multipleChoice"
	RatingScale    QuestionType = "ratingScale"
	OpenEnded      QuestionType = "openEnded"
	Dropdown       QuestionType = "dropdown"
	Checkboxes     QuestionType = "checkboxes"
)

const (
	DefaultScale = 5
	MinScale     = 2
	MaxScale     = 10
)

// QuestionTypes lists every supported type in builder order.
var QuestionTypes = []QuestionType{MultipleChoice, RatingScale, OpenEnded, Dropdown, Checkboxes}

func (t QuestionType) Valid() bool {
	return slices.Contains(QuestionTypes, t)
}

// HasOptions reports whether questions of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == Dropdown || t == Checkboxes
}

// MultiSelect reports whether a respondent may pick several values.
func (t QuestionType) MultiSelect() bool {
	return t == Checkboxes
}

// Body is the type specific payload of a question. Only Choices, Scale and
// FreeText implement it.
type Body interface {
	isBody()
}

// Choices is the body of multipleChoice, dropdown and checkboxes questions.
type Choices struct {
	Options []string
}

// Scale is the body of ratingScale questions. Answers range over 1..Max.
type Scale struct {
	Max int
}

// FreeText is the body of openEnded questions.
type FreeText struct{}

func (Choices) isBody()  {}
func (Scale) isBody()    {}
func (FreeText) isBody() {}

// NewBody returns the default body for a question type.
func NewBody(t QuestionType) Body {
	switch {
	case t.HasOptions():
		return Choices{Options: []string{"", ""}}
	case t == RatingScale:
		return Scale{Max: DefaultScale}
	default:
		return FreeText{}
	}
}

// Condition makes a question visible only when the source question
// was answered with Answer.
type Condition struct {
	QuestionID string
	Answer     Answer
}

// Complete reports whether both the source and an answer are set.
func (c Condition) Complete() bool {
	return c.QuestionID != "" && !c.Answer.IsEmpty()
}

// The Question object.
type Question struct {
	ID        string
	Type      QuestionType
	Title     string
	Required  bool
	Condition *Condition
	Body      Body
}

// Options returns a copy of the option list for choice questions.
func (q Question) Options() ([]string, bool) {
	c, ok := q.Body.(Choices)
	if !ok {
		return nil, false
	}
	return slices.Clone(c.Options), true
}

// Scale returns the upper bound of a rating question.
func (q Question) Scale() (int, bool) {
	s, ok := q.Body.(Scale)
	if !ok {
		return 0, false
	}
	return s.Max, true
}

// Clone returns a deep copy so callers cannot reach into registry state.
func (q Question) Clone() Question {
	out := q
	if c, ok := q.Body.(Choices); ok {
		out.Body = Choices{Options: slices.Clone(c.Options)}
	}
	if q.Condition != nil {
		cond := Condition{QuestionID: q.Condition.QuestionID, Answer: q.Condition.Answer.Clone()}
		out.Condition = &cond
	}
	return out
}
