package services

import (
	"slices"
	"strconv"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/pkg/fault"
)

// Update is one field level change applied by Survey.UpdateQuestion.
// Updates that do not fit the question's type are rejected instead of
// being merged.
type Update func(s *Survey, q *models.Question) error

func SetTitle(title string) Update {
	return func(_ *Survey, q *models.Question) error {
		q.Title = title
		return nil
	}
}

func SetRequired(required bool) Update {
	return func(_ *Survey, q *models.Question) error {
		q.Required = required
		return nil
	}
}

// SetOptions replaces the whole option list of a choice question.
func SetOptions(options []string) Update {
	return func(_ *Survey, q *models.Question) error {
		if _, ok := q.Body.(models.Choices); !ok {
			return fault.Clientf(fault.ErrInvalidPayload, "options on %s question %s", q.Type, q.ID)
		}
		q.Body = models.Choices{Options: slices.Clone(options)}
		return nil
	}
}

// SetScale changes the upper bound of a rating question.
func SetScale(max int) Update {
	return func(_ *Survey, q *models.Question) error {
		if _, ok := q.Body.(models.Scale); !ok {
			return fault.Clientf(fault.ErrInvalidPayload, "scale on %s question %s", q.Type, q.ID)
		}
		if max < models.MinScale || max > models.MaxScale {
			return fault.Clientf(fault.ErrInvalidPayload, "scale %d outside %d..%d", max, models.MinScale, models.MaxScale)
		}
		q.Body = models.Scale{Max: max}
		return nil
	}
}

// ChangeType only accepts the type the question already has.
func ChangeType(t models.QuestionType) Update {
	return func(_ *Survey, q *models.Question) error {
		if t != q.Type {
			return fault.Clientf(fault.ErrInvalidTypeTransition, "%s to %s on question %s", q.Type, t, q.ID)
		}
		return nil
	}
}

// SetCondition persists a condition. A nil condition removes it. The source
// must be another question of the same survey; the answer may still be empty.
func SetCondition(c *models.Condition) Update {
	return func(s *Survey, q *models.Question) error {
		if c == nil {
			q.Condition = nil
			return nil
		}
		if c.QuestionID == "" {
			return fault.Clientf(fault.ErrNoSource, "condition on question %s", q.ID)
		}
		if c.QuestionID == q.ID {
			return fault.Clientf(fault.ErrSelfReference, "question %s", q.ID)
		}

		source, ok := s.Question(c.QuestionID)
		if !ok {
			return fault.Clientf(fault.ErrNotFound, "condition source %s", c.QuestionID)
		}
		if c.Answer.IsMulti() && !source.Type.MultiSelect() {
			return fault.Clientf(fault.ErrInvalidPayload, "set answer for %s source %s", source.Type, source.ID)
		}

		q.Condition = &models.Condition{QuestionID: c.QuestionID, Answer: c.Answer.Clone()}
		return nil
	}
}

func ClearCondition() Update {
	return SetCondition(nil)
}

// answerChoices lists the values a condition on source can expect, or nil
// when any free text is allowed.
func answerChoices(source models.Question) []string {
	switch body := source.Body.(type) {
	case models.Choices:
		return slices.Clone(body.Options)
	case models.Scale:
		out := make([]string, body.Max)
		for i := range body.Max {
			out[i] = strconv.Itoa(i + 1)
		}
		return out
	default:
		return nil
	}
}
