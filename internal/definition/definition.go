// Package definition loads surveys and answer sheets from YAML.
//
// A definition refers to questions by author chosen keys; real question ids
// are generated while the survey is replayed through the builder, so the
// same invariants apply as for interactively built surveys.
package definition

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/internal/services"
	"github.com/paulexconde/surveybuilder/pkg/fault"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Document struct {
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions" validate:"unique=Key,dive"`
}

type Question struct {
	Key       string     `yaml:"key" validate:"required"`
	Type      string     `yaml:"type" validate:"required,oneof=multipleChoice ratingScale openEnded dropdown checkboxes"`
	Title     string     `yaml:"title"`
	Required  bool       `yaml:"required"`
	Options   []string   `yaml:"options"`
	Scale     int        `yaml:"scale" validate:"omitempty,min=2,max=10"`
	Condition *Condition `yaml:"condition" validate:"omitempty"`
}

type Condition struct {
	Question string      `yaml:"question" validate:"required"`
	Answer   AnswerValue `yaml:"answer"`
}

// AnswerValue decodes a scalar as a single answer and a sequence as a set.
type AnswerValue struct {
	models.Answer
}

func (a *AnswerValue) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag == "!!null":
		a.Answer = models.Answer{}
	case node.Kind == yaml.ScalarNode:
		a.Answer = models.SingleAnswer(node.Value)
	case node.Kind == yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		a.Answer = models.MultiAnswer(values...)
	default:
		return fmt.Errorf("line %d: answer must be a string or a list of strings", node.Line)
	}
	return nil
}

// Loaded is a survey built from a Document.
type Loaded struct {
	Survey *services.Survey
	ids    map[string]string
	keys   map[string]string
}

// Key returns the definition key of a question id.
func (l *Loaded) Key(questionID string) string {
	return l.keys[questionID]
}

// ID returns the generated question id of a definition key.
func (l *Loaded) ID(key string) (string, bool) {
	id, ok := l.ids[key]
	return id, ok
}

// Decode reads and validates a survey document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fault.NewClientError("decode survey", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fault.NewClientError("invalid survey", err)
	}

	return &doc, nil
}

// Load decodes a document and replays it into a new Survey.
func Load(r io.Reader, opts ...services.Option) (*Loaded, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts...)
}

// Build adds every question in order, then wires conditions through a
// ConditionEditor once all sources exist.
func Build(doc *Document, opts ...services.Option) (*Loaded, error) {
	survey := services.NewSurvey(opts...)
	if doc.Title != "" {
		survey.Rename(doc.Title)
	}

	l := &Loaded{
		Survey: survey,
		ids:    make(map[string]string, len(doc.Questions)),
		keys:   make(map[string]string, len(doc.Questions)),
	}

	for _, dq := range doc.Questions {
		q, err := survey.AddQuestion(models.QuestionType(dq.Type))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", dq.Key, err)
		}
		l.ids[dq.Key] = q.ID
		l.keys[q.ID] = dq.Key

		updates := []services.Update{services.SetTitle(dq.Title), services.SetRequired(dq.Required)}
		if dq.Options != nil {
			updates = append(updates, services.SetOptions(dq.Options))
		}
		if dq.Scale != 0 {
			updates = append(updates, services.SetScale(dq.Scale))
		}
		if _, err := survey.UpdateQuestion(q.ID, updates...); err != nil {
			return nil, fmt.Errorf("question %s: %w", dq.Key, err)
		}
	}

	for _, dq := range doc.Questions {
		if dq.Condition == nil {
			continue
		}
		if err := l.wireCondition(l.ids[dq.Key], dq.Condition); err != nil {
			return nil, fmt.Errorf("question %s: %w", dq.Key, err)
		}
	}

	return l, nil
}

func (l *Loaded) wireCondition(questionID string, dc *Condition) error {
	sourceID, ok := l.ids[dc.Question]
	if !ok {
		return fault.Clientf(fault.ErrNotFound, "condition source %s", dc.Question)
	}
	source, _ := l.Survey.Question(sourceID)

	editor, err := l.Survey.EditCondition(questionID)
	if err != nil {
		return err
	}
	editor.Enable()
	if err := editor.SelectSource(sourceID); err != nil {
		return err
	}

	if source.Type.MultiSelect() {
		for _, v := range dc.Answer.Values() {
			if err := editor.ToggleAnswer(v, true); err != nil {
				return err
			}
		}
		return nil
	}

	if dc.Answer.IsMulti() {
		return fault.Clientf(fault.ErrInvalidPayload, "several answers for %s source %s", source.Type, dc.Question)
	}
	if dc.Answer.IsEmpty() {
		return nil
	}
	return editor.ChooseAnswer(dc.Answer.Value())
}

// DecodeAnswers reads an answer sheet keyed by definition keys and maps it
// onto question ids.
func (l *Loaded) DecodeAnswers(r io.Reader) (models.AnswerSet, error) {
	raw := make(map[string]AnswerValue)
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fault.NewClientError("decode answers", err)
	}

	answers := make(models.AnswerSet, len(raw))
	for key, v := range raw {
		id, ok := l.ids[key]
		if !ok {
			return nil, fault.Clientf(fault.ErrNotFound, "answer for unknown question %s", key)
		}
		answers[id] = v.Answer
	}
	return answers, nil
}
