package services

import (
	"slices"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/pkg/fault"
)

// The authoring state of a question's conditional logic.
type ConditionState int

const (
	Unconditional ConditionState = iota
	ConditionNoSource
	ConditionNoAnswer
	ConditionComplete
)

func (s ConditionState) String() string {
	switch s {
	case Unconditional:
		return "unconditional"
	case ConditionNoSource:
		return "no-source"
	case ConditionNoAnswer:
		return "no-answer"
	case ConditionComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ConditionEditor tracks the three builder controls of one question's
// conditional logic (enabled, source, answer) and keeps the persisted
// condition consistent with them.
//
// A condition is only persisted once a source is selected, and disabling
// always removes it along with the editor's own selections.
type ConditionEditor struct {
	survey     *Survey
	questionID string
	enabled    bool
	source     string
	answer     models.Answer
}

// EditCondition opens an editor seeded from the question's current condition.
func (s *Survey) EditCondition(questionID string) (*ConditionEditor, error) {
	q, ok := s.Question(questionID)
	if !ok {
		return nil, fault.Clientf(fault.ErrNotFound, "question %s", questionID)
	}

	e := &ConditionEditor{survey: s, questionID: questionID}
	if q.Condition != nil {
		e.enabled = true
		e.source = q.Condition.QuestionID
		e.answer = q.Condition.Answer.Clone()
	}
	return e, nil
}

func (e *ConditionEditor) State() ConditionState {
	e.refresh()
	switch {
	case !e.enabled:
		return Unconditional
	case e.source == "":
		return ConditionNoSource
	case e.answer.IsEmpty():
		return ConditionNoAnswer
	default:
		return ConditionComplete
	}
}

// Enable turns conditional logic on without persisting anything.
func (e *ConditionEditor) Enable() {
	e.enabled = true
}

// Disable removes the persisted condition and forgets every selection.
func (e *ConditionEditor) Disable() error {
	e.enabled = false
	e.source = ""
	e.answer = models.Answer{}

	_, err := e.survey.UpdateQuestion(e.questionID, ClearCondition())
	return err
}

// SelectSource picks the question this one depends on and resets the
// answer, since it was chosen against the previous source's values. An
// empty id removes the condition.
func (e *ConditionEditor) SelectSource(sourceID string) error {
	e.refresh()
	if !e.enabled {
		return fault.Clientf(fault.ErrConditionDisabled, "question %s", e.questionID)
	}

	if sourceID == "" {
		if _, err := e.survey.UpdateQuestion(e.questionID, ClearCondition()); err != nil {
			return err
		}
		e.source = ""
		e.answer = models.Answer{}
		return nil
	}

	cond := &models.Condition{QuestionID: sourceID}
	if _, err := e.survey.UpdateQuestion(e.questionID, SetCondition(cond)); err != nil {
		return err
	}
	e.source = sourceID
	e.answer = models.Answer{}
	return nil
}

// ChooseAnswer sets the expected answer of a single answer source.
func (e *ConditionEditor) ChooseAnswer(value string) error {
	source, err := e.selectedSource()
	if err != nil {
		return err
	}
	if source.Type.MultiSelect() {
		return fault.Clientf(fault.ErrInvalidPayload, "checkbox source %s takes toggled answers", source.ID)
	}

	return e.persist(models.SingleAnswer(value))
}

// ToggleAnswer adds or removes one expected value of a checkbox source,
// keeping the other selected values.
func (e *ConditionEditor) ToggleAnswer(option string, checked bool) error {
	source, err := e.selectedSource()
	if err != nil {
		return err
	}
	if !source.Type.MultiSelect() {
		return fault.Clientf(fault.ErrInvalidPayload, "%s source %s takes a single answer", source.Type, source.ID)
	}

	return e.persist(e.answer.Toggle(option, checked))
}

// Sources lists the questions that may be chosen as source, in display order.
func (e *ConditionEditor) Sources() []models.Question {
	return slices.DeleteFunc(e.survey.Questions(), func(q models.Question) bool {
		return q.ID == e.questionID
	})
}

// AnswerChoices lists the values the selected source offers. It returns nil
// for free text sources or when no source is selected.
func (e *ConditionEditor) AnswerChoices() []string {
	source, err := e.selectedSource()
	if err != nil {
		return nil
	}
	return answerChoices(source)
}

func (e *ConditionEditor) Source() string {
	e.refresh()
	return e.source
}

func (e *ConditionEditor) Answer() models.Answer {
	e.refresh()
	return e.answer.Clone()
}

func (e *ConditionEditor) selectedSource() (models.Question, error) {
	e.refresh()
	if !e.enabled {
		return models.Question{}, fault.Clientf(fault.ErrConditionDisabled, "question %s", e.questionID)
	}
	if e.source == "" {
		return models.Question{}, fault.Clientf(fault.ErrNoSource, "question %s", e.questionID)
	}
	source, ok := e.survey.Question(e.source)
	if !ok {
		return models.Question{}, fault.Clientf(fault.ErrNotFound, "condition source %s", e.source)
	}
	return source, nil
}

// refresh reloads the source and answer from the stored condition, which
// another editor or a direct update may have changed. A question without a
// stored condition keeps only the enabled toggle.
func (e *ConditionEditor) refresh() {
	q, ok := e.survey.Question(e.questionID)
	if !ok {
		return
	}
	if q.Condition == nil {
		e.source = ""
		e.answer = models.Answer{}
		return
	}
	e.enabled = true
	e.source = q.Condition.QuestionID
	e.answer = q.Condition.Answer.Clone()
}

func (e *ConditionEditor) persist(answer models.Answer) error {
	cond := &models.Condition{QuestionID: e.source, Answer: answer}
	if _, err := e.survey.UpdateQuestion(e.questionID, SetCondition(cond)); err != nil {
		return err
	}
	e.answer = answer
	return nil
}
