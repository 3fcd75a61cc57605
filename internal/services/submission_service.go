package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/pkg/fault"
)

// Violation is one reason a submission was refused.
type Violation struct {
	QuestionID string
	Err        error
}

// SubmissionError lists every violation found in a submission.
type SubmissionError struct {
	Violations []Violation
}

func (e *SubmissionError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %v", v.QuestionID, v.Err)
	}
	return "submission blocked: " + strings.Join(parts, "; ")
}

// Unwrap exposes the violation causes to errors.Is.
func (e *SubmissionError) Unwrap() []error {
	errs := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		errs[i] = v.Err
	}
	return errs
}

// Checks a respondent's answers before they are submitted.
type SubmissionService interface {
	// Validate refuses unanswered required questions and malformed answers,
	// looking only at questions that are currently visible.
	Validate(answers models.AnswerSet) error
	// Collect keeps the answers of visible questions only.
	Collect(answers models.AnswerSet) models.AnswerSet
}

type submissionServiceImpl struct {
	conditions ConditionService
}

// Instantiate the SubmissionService.
func NewSubmissionService(conditions ConditionService) SubmissionService {
	return &submissionServiceImpl{conditions: conditions}
}

func (s *submissionServiceImpl) Validate(answers models.AnswerSet) error {
	var violations []Violation

	for _, q := range s.conditions.VisibleQuestions(answers) {
		answer, ok := answers[q.ID]
		if !ok || isBlank(answer) {
			if q.Required {
				violations = append(violations, Violation{QuestionID: q.ID, Err: fault.ErrRequiredAnswer})
			}
			continue
		}

		if err := checkAnswer(q, answer); err != nil {
			violations = append(violations, Violation{QuestionID: q.ID, Err: err})
		}
	}

	if len(violations) > 0 {
		return &SubmissionError{Violations: violations}
	}
	return nil
}

func (s *submissionServiceImpl) Collect(answers models.AnswerSet) models.AnswerSet {
	out := make(models.AnswerSet)
	for _, q := range s.conditions.VisibleQuestions(answers) {
		if a, ok := answers[q.ID]; ok {
			out[q.ID] = a.Clone()
		}
	}
	return out
}

func isBlank(a models.Answer) bool {
	return !slices.ContainsFunc(a.Values(), func(v string) bool {
		return strings.TrimSpace(v) != ""
	})
}

func checkAnswer(q models.Question, a models.Answer) error {
	if a.IsMulti() && !q.Type.MultiSelect() {
		return fmt.Errorf("%w: several values for %s question", fault.ErrInvalidAnswer, q.Type)
	}

	switch body := q.Body.(type) {
	case models.Choices:
		for _, v := range a.Values() {
			if !slices.Contains(body.Options, v) {
				return fmt.Errorf("%w: %q is not an option", fault.ErrInvalidAnswer, v)
			}
		}
	case models.Scale:
		n, err := strconv.Atoi(a.Value())
		if err != nil {
			return fmt.Errorf("%w: rating %q", fault.ErrInvalidAnswer, a.Value())
		}
		if n < 1 || n > body.Max {
			return fmt.Errorf("%w: rating %d outside 1..%d", fault.ErrInvalidAnswer, n, body.Max)
		}
	}

	return nil
}
