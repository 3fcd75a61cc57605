package services

import (
	"log/slog"
	"slices"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/internal/pkg/idgen"
	"github.com/paulexconde/surveybuilder/pkg/fault"
)

const DefaultSurveyTitle = "Untitled Survey"

// Registry is the read side of a survey: identifier lookup plus the
// ordered question list used for rendering.
type Registry interface {
	Question(id string) (models.Question, bool)
	Questions() []models.Question
}

// Survey holds the ordered questions of one survey and every mutation the
// builder performs on them. A Survey is owned by a single editing session
// and is not safe for concurrent use.
type Survey struct {
	id        string
	title     string
	questions []models.Question
	issued    map[string]struct{}
	ids       idgen.Generator
	logger    *slog.Logger
}

type Option func(*Survey)

func WithID(id string) Option {
	return func(s *Survey) { s.id = id }
}

func WithTitle(title string) Option {
	return func(s *Survey) { s.title = title }
}

// WithIDGenerator replaces the UUID source for survey and question ids.
func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Survey) { s.ids = g }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Survey) { s.logger = logger }
}

// Instantiate an empty Survey.
func NewSurvey(opts ...Option) *Survey {
	s := &Survey{
		title:  DefaultSurveyTitle,
		issued: make(map[string]struct{}),
		ids:    idgen.UUIDGenerator{},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.id == "" {
		s.id = s.ids.NewID()
	}
	s.issued[s.id] = struct{}{}
	s.logger = s.logger.With("survey_id", s.id)

	return s
}

func (s *Survey) ID() string {
	return s.id
}

func (s *Survey) Title() string {
	return s.title
}

func (s *Survey) Rename(title string) {
	s.title = title
}

func (s *Survey) Len() int {
	return len(s.questions)
}

// Question returns a copy of the question with the given id.
func (s *Survey) Question(id string) (models.Question, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Question{}, false
	}
	return s.questions[idx].Clone(), true
}

// Questions returns copies of every question in display order.
func (s *Survey) Questions() []models.Question {
	out := make([]models.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}
	return out
}

// AddQuestion appends a question of type t with the type's default body.
func (s *Survey) AddQuestion(t models.QuestionType) (models.Question, error) {
	if !t.Valid() {
		return models.Question{}, fault.Clientf(fault.ErrInvalidPayload, "unknown question type %q", t)
	}

	id, err := s.newID()
	if err != nil {
		return models.Question{}, err
	}

	q := models.Question{
		ID:   id,
		Type: t,
		Body: models.NewBody(t),
	}
	s.questions = append(s.questions, q)

	s.logger.Debug("question added", "question_id", id, "type", t, "position", len(s.questions)-1)
	return q.Clone(), nil
}

// UpdateQuestion applies updates in order to the question with the given
// id. Either every update succeeds or the question is left untouched.
func (s *Survey) UpdateQuestion(id string, updates ...Update) (models.Question, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Question{}, fault.Clientf(fault.ErrNotFound, "question %s", id)
	}

	draft := s.questions[idx].Clone()
	for _, update := range updates {
		if err := update(s, &draft); err != nil {
			s.logger.Warn("question update rejected", "question_id", id, "error", err)
			return models.Question{}, err
		}
	}
	s.questions[idx] = draft

	s.logger.Debug("question updated", "question_id", id, "updates", len(updates))
	return draft.Clone(), nil
}

// DeleteQuestion removes a question. Conditions elsewhere that point at it
// are left in place and evaluate as hidden until repaired.
func (s *Survey) DeleteQuestion(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fault.Clientf(fault.ErrNotFound, "question %s", id)
	}

	s.questions = slices.Delete(s.questions, idx, idx+1)

	s.logger.Debug("question deleted", "question_id", id)
	return nil
}

// Reorder moves the dragged question to target, where target indexes the
// list after the dragged question has been removed.
func (s *Survey) Reorder(draggedID string, target int) error {
	from := s.indexOf(draggedID)
	if from < 0 {
		return fault.Clientf(fault.ErrNotFound, "question %s", draggedID)
	}
	if target < 0 || target >= len(s.questions) {
		return fault.Clientf(fault.ErrNotFound, "position %d", target)
	}

	q := s.questions[from]
	s.questions = slices.Delete(s.questions, from, from+1)
	s.questions = slices.Insert(s.questions, target, q)

	s.logger.Debug("question moved", "question_id", draggedID, "from", from, "to", target)
	return nil
}

// AddOption appends an empty option to a choice question.
func (s *Survey) AddOption(questionID string) error {
	return s.editOptions(questionID, func(opts []string) ([]string, error) {
		return append(opts, ""), nil
	})
}

func (s *Survey) UpdateOption(questionID string, index int, value string) error {
	return s.editOptions(questionID, func(opts []string) ([]string, error) {
		if index < 0 || index >= len(opts) {
			return nil, fault.Clientf(fault.ErrNotFound, "option %d of question %s", index, questionID)
		}
		opts[index] = value
		return opts, nil
	})
}

// DeleteOption removes one option. Conditions that expected the removed
// value are not touched; they simply stop matching.
func (s *Survey) DeleteOption(questionID string, index int) error {
	return s.editOptions(questionID, func(opts []string) ([]string, error) {
		if index < 0 || index >= len(opts) {
			return nil, fault.Clientf(fault.ErrNotFound, "option %d of question %s", index, questionID)
		}
		return slices.Delete(opts, index, index+1), nil
	})
}

func (s *Survey) editOptions(questionID string, edit func([]string) ([]string, error)) error {
	idx := s.indexOf(questionID)
	if idx < 0 {
		return fault.Clientf(fault.ErrNotFound, "question %s", questionID)
	}

	q := s.questions[idx]
	choices, ok := q.Body.(models.Choices)
	if !ok {
		return fault.Clientf(fault.ErrInvalidPayload, "%s question %s has no options", q.Type, questionID)
	}

	opts, err := edit(slices.Clone(choices.Options))
	if err != nil {
		return err
	}
	s.questions[idx].Body = models.Choices{Options: opts}

	s.logger.Debug("options updated", "question_id", questionID, "options", len(opts))
	return nil
}

// Issue is a condition problem found by Audit.
type Issue struct {
	QuestionID string
	Err        error
}

// Audit lists dangling condition sources and condition answers that no
// longer name a value the source question offers. Nothing is repaired.
func (s *Survey) Audit() []Issue {
	var issues []Issue

	for _, q := range s.questions {
		if q.Condition == nil {
			continue
		}

		source, ok := s.Question(q.Condition.QuestionID)
		if !ok {
			issues = append(issues, Issue{QuestionID: q.ID, Err: fault.ErrDanglingCondition})
			continue
		}

		allowed := answerChoices(source)
		if allowed == nil {
			continue
		}
		for _, v := range q.Condition.Answer.Values() {
			if !slices.Contains(allowed, v) {
				issues = append(issues, Issue{QuestionID: q.ID, Err: fault.ErrStaleConditionAnswer})
				break
			}
		}
	}

	return issues
}

func (s *Survey) indexOf(id string) int {
	return slices.IndexFunc(s.questions, func(q models.Question) bool { return q.ID == id })
}

func (s *Survey) newID() (string, error) {
	id := s.ids.NewID()
	if _, dup := s.issued[id]; dup || id == "" {
		return "", fault.NewInternalError("id generator returned "+id, fault.ErrDuplicateID)
	}
	s.issued[id] = struct{}{}
	return id, nil
}
