package services

import (
	"errors"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/paulexconde/surveybuilder/internal/models"
)

// Comparisons run against the recorded answer of the source question.
// Single answers must match exactly; checkbox answers must contain every
// expected value.
const (
	singleMatchExpression = `answered && answer == want`
	subsetMatchExpression = `len(want) > 0 && all(want, # in answers)`
)

type singleEnv struct {
	Answered bool   `expr:"answered"`
	Answer   string `expr:"answer"`
	Want     string `expr:"want"`
}

type subsetEnv struct {
	Answers []string `expr:"answers"`
	Want    []string `expr:"want"`
}

var (
	singleMatch = mustCompile(singleMatchExpression, singleEnv{})
	subsetMatch = mustCompile(subsetMatchExpression, subsetEnv{})
)

// Decides which questions are shown for a given set of answers.
type ConditionService interface {
	// IsVisible reports whether question is shown. It never mutates the
	// registry or the answers, so it can be called with hypothetical answers.
	IsVisible(question models.Question, answers models.AnswerSet) bool
	// VisibleQuestions returns the visible questions in display order.
	VisibleQuestions(answers models.AnswerSet) []models.Question
}

type conditionServiceImpl struct {
	registry Registry
}

// Instantiate the ConditionService over a registry.
func NewConditionService(registry Registry) ConditionService {
	return &conditionServiceImpl{registry: registry}
}

func (s *conditionServiceImpl) IsVisible(question models.Question, answers models.AnswerSet) bool {
	cond := question.Condition
	if cond == nil {
		return true
	}

	// An incomplete or dangling condition can never be satisfied.
	if !cond.Complete() {
		return false
	}
	source, ok := s.registry.Question(cond.QuestionID)
	if !ok {
		return false
	}

	recorded, answered := answers[source.ID]

	var (
		match bool
		err   error
	)
	if source.Type.MultiSelect() {
		match, err = evaluateExpression(subsetMatch, subsetEnv{
			Answers: recorded.Values(),
			Want:    cond.Answer.Values(),
		})
	} else {
		if cond.Answer.IsMulti() {
			return false
		}
		match, err = evaluateExpression(singleMatch, singleEnv{
			Answered: answered && !recorded.IsMulti() && !recorded.IsEmpty(),
			Answer:   recorded.Value(),
			Want:     cond.Answer.Value(),
		})
	}
	if err != nil {
		return false
	}

	return match
}

func (s *conditionServiceImpl) VisibleQuestions(answers models.AnswerSet) []models.Question {
	var out []models.Question
	for _, q := range s.registry.Questions() {
		if s.IsVisible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}

func mustCompile(expression string, env any) *vm.Program {
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		panic(err)
	}
	return program
}

func evaluateExpression(program *vm.Program, env any) (bool, error) {
	output, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)
	if !ok {
		return false, errors.New("expression did not return a boolean")
	}

	return result, nil
}
