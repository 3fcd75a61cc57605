package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/internal/pkg/idgen"
	"github.com/paulexconde/surveybuilder/pkg/fault"
)

func newTestSurvey(t *testing.T) *Survey {
	t.Helper()
	return NewSurvey(WithID("s1"), WithIDGenerator(idgen.NewSequence("q")))
}

func addQuestion(t *testing.T, s *Survey, qt models.QuestionType) models.Question {
	t.Helper()
	q, err := s.AddQuestion(qt)
	require.NoError(t, err)
	return q
}

func ids(questions []models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}

func TestNewSurvey_Defaults(t *testing.T) {
	s := NewSurvey()

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, DefaultSurveyTitle, s.Title())
	assert.Zero(t, s.Len())

	s.Rename("AI usage")
	assert.Equal(t, "AI usage", s.Title())
}

func TestAddQuestion_TypeDefaults(t *testing.T) {
	tests := []struct {
		qt       models.QuestionType
		expected models.Body
	}{
		{models.MultipleChoice, models.Choices{Options: []string{"", ""}}},
		{models.Dropdown, models.Choices{Options: []string{"", ""}}},
		{models.Checkboxes, models.Choices{Options: []string{"", ""}}},
		{models.RatingScale, models.Scale{Max: 5}},
		{models.OpenEnded, models.FreeText{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.qt), func(t *testing.T) {
			s := newTestSurvey(t)
			q := addQuestion(t, s, tt.qt)

			assert.Equal(t, "q1", q.ID)
			assert.Equal(t, tt.qt, q.Type)
			assert.Equal(t, tt.expected, q.Body)
			assert.Empty(t, q.Title)
			assert.False(t, q.Required)
			assert.Nil(t, q.Condition)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestAddQuestion_UnknownType(t *testing.T) {
	s := newTestSurvey(t)

	_, err := s.AddQuestion(models.QuestionType("matrix"))
	require.ErrorIs(t, err, fault.ErrInvalidPayload)
	assert.True(t, fault.IsClientError(err))
	assert.Zero(t, s.Len())
}

func TestAddDelete_IDsStayUniqueAndAreNeverReused(t *testing.T) {
	s := newTestSurvey(t)

	q1 := addQuestion(t, s, models.OpenEnded)
	q2 := addQuestion(t, s, models.OpenEnded)
	require.NoError(t, s.DeleteQuestion(q1.ID))
	q3 := addQuestion(t, s, models.OpenEnded)

	assert.Equal(t, []string{q2.ID, q3.ID}, ids(s.Questions()))
	assert.NotEqual(t, q1.ID, q3.ID)

	got, ok := s.Question(q2.ID)
	require.True(t, ok)
	assert.Equal(t, q2.ID, got.ID)
}

func TestAddQuestion_RejectsReusedID(t *testing.T) {
	s := NewSurvey(WithID("s1"), WithIDGenerator(idgen.Func(func() string { return "same" })))

	_, err := s.AddQuestion(models.OpenEnded)
	require.NoError(t, err)

	_, err = s.AddQuestion(models.OpenEnded)
	require.ErrorIs(t, err, fault.ErrDuplicateID)
	assert.True(t, fault.IsInternalError(err))
	assert.Equal(t, 1, s.Len())
}

func TestUpdateQuestion_MergesFields(t *testing.T) {
	s := newTestSurvey(t)
	q := addQuestion(t, s, models.MultipleChoice)

	updated, err := s.UpdateQuestion(q.ID, SetTitle("Do you use AI?"), SetRequired(true), SetOptions([]string{"Yes", "No"}))
	require.NoError(t, err)

	assert.Equal(t, "Do you use AI?", updated.Title)
	assert.True(t, updated.Required)
	opts, ok := updated.Options()
	require.True(t, ok)
	assert.Equal(t, []string{"Yes", "No"}, opts)
}

func TestUpdateQuestion_NotFound(t *testing.T) {
	s := newTestSurvey(t)

	_, err := s.UpdateQuestion("missing", SetTitle("x"))
	require.ErrorIs(t, err, fault.ErrNotFound)
}

func TestUpdateQuestion_RejectsTypeChange(t *testing.T) {
	s := newTestSurvey(t)
	q := addQuestion(t, s, models.RatingScale)

	_, err := s.UpdateQuestion(q.ID, SetTitle("changed"), ChangeType(models.Checkboxes))
	require.ErrorIs(t, err, fault.ErrInvalidTypeTransition)

	// nothing from the failed batch is applied
	got, _ := s.Question(q.ID)
	assert.Empty(t, got.Title)
	assert.Equal(t, models.RatingScale, got.Type)

	_, err = s.UpdateQuestion(q.ID, ChangeType(models.RatingScale))
	assert.NoError(t, err)
}

func TestUpdateQuestion_PayloadMustFitType(t *testing.T) {
	s := newTestSurvey(t)
	rating := addQuestion(t, s, models.RatingScale)
	choice := addQuestion(t, s, models.Dropdown)

	_, err := s.UpdateQuestion(rating.ID, SetOptions([]string{"a"}))
	assert.ErrorIs(t, err, fault.ErrInvalidPayload)

	_, err = s.UpdateQuestion(choice.ID, SetScale(7))
	assert.ErrorIs(t, err, fault.ErrInvalidPayload)

	_, err = s.UpdateQuestion(rating.ID, SetScale(11))
	assert.ErrorIs(t, err, fault.ErrInvalidPayload)

	updated, err := s.UpdateQuestion(rating.ID, SetScale(10))
	require.NoError(t, err)
	max, ok := updated.Scale()
	require.True(t, ok)
	assert.Equal(t, 10, max)
}

func TestUpdateQuestion_ConditionReferences(t *testing.T) {
	s := newTestSurvey(t)
	q1 := addQuestion(t, s, models.MultipleChoice)
	q2 := addQuestion(t, s, models.OpenEnded)

	_, err := s.UpdateQuestion(q2.ID, SetCondition(&models.Condition{QuestionID: q2.ID}))
	assert.ErrorIs(t, err, fault.ErrSelfReference)

	_, err = s.UpdateQuestion(q2.ID, SetCondition(&models.Condition{QuestionID: "nope"}))
	assert.ErrorIs(t, err, fault.ErrNotFound)

	_, err = s.UpdateQuestion(q2.ID, SetCondition(&models.Condition{QuestionID: q1.ID, Answer: models.MultiAnswer("a")}))
	assert.ErrorIs(t, err, fault.ErrInvalidPayload)

	updated, err := s.UpdateQuestion(q2.ID, SetCondition(&models.Condition{QuestionID: q1.ID, Answer: models.SingleAnswer("Yes")}))
	require.NoError(t, err)
	require.NotNil(t, updated.Condition)
	assert.Equal(t, q1.ID, updated.Condition.QuestionID)

	updated, err = s.UpdateQuestion(q2.ID, ClearCondition())
	require.NoError(t, err)
	assert.Nil(t, updated.Condition)
}

func TestReturnedQuestionsAreCopies(t *testing.T) {
	s := newTestSurvey(t)
	q := addQuestion(t, s, models.Checkboxes)

	q.Body.(models.Choices).Options[0] = "mutated"
	list := s.Questions()
	list[0].Title = "mutated"

	got, _ := s.Question(q.ID)
	opts, _ := got.Options()
	assert.Equal(t, []string{"", ""}, opts)
	assert.Empty(t, got.Title)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name     string
		dragged  string
		target   int
		expected []string
	}{
		{"first to last", "q1", 2, []string{"q2", "q3", "q1"}},
		{"last to first", "q3", 0, []string{"q3", "q1", "q2"}},
		{"middle to last", "q2", 2, []string{"q1", "q3", "q2"}},
		{"in place", "q2", 1, []string{"q1", "q2", "q3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSurvey(t)
			addQuestion(t, s, models.MultipleChoice)
			addQuestion(t, s, models.OpenEnded)
			addQuestion(t, s, models.OpenEnded)
			_, err := s.UpdateQuestion("q3", SetCondition(&models.Condition{QuestionID: "q1", Answer: models.SingleAnswer("Yes")}))
			require.NoError(t, err)

			require.NoError(t, s.Reorder(tt.dragged, tt.target))
			assert.Equal(t, tt.expected, ids(s.Questions()))

			q3, _ := s.Question("q3")
			assert.Equal(t, "q1", q3.Condition.QuestionID)
		})
	}
}

func TestReorder_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		target  int
	}{
		{"unknown question", "missing", 0},
		{"target past the end", "q1", 2},
		{"negative target", "q1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSurvey(t)
			addQuestion(t, s, models.OpenEnded)
			addQuestion(t, s, models.OpenEnded)

			assert.ErrorIs(t, s.Reorder(tt.dragged, tt.target), fault.ErrNotFound)
			assert.Equal(t, []string{"q1", "q2"}, ids(s.Questions()))
		})
	}
}

func TestOptions(t *testing.T) {
	s := newTestSurvey(t)
	q := addQuestion(t, s, models.Dropdown)

	require.NoError(t, s.UpdateOption(q.ID, 0, "Red"))
	require.NoError(t, s.UpdateOption(q.ID, 1, "Green"))
	require.NoError(t, s.AddOption(q.ID))
	require.NoError(t, s.UpdateOption(q.ID, 2, "Blue"))
	require.NoError(t, s.DeleteOption(q.ID, 1))

	got, _ := s.Question(q.ID)
	opts, _ := got.Options()
	assert.Equal(t, []string{"Red", "Blue"}, opts)

	assert.ErrorIs(t, s.UpdateOption(q.ID, 5, "x"), fault.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOption(q.ID, -1), fault.ErrNotFound)
	assert.ErrorIs(t, s.AddOption("missing"), fault.ErrNotFound)

	open := addQuestion(t, s, models.OpenEnded)
	assert.ErrorIs(t, s.AddOption(open.ID), fault.ErrInvalidPayload)
}

func TestAudit(t *testing.T) {
	s := newTestSurvey(t)
	colors := addQuestion(t, s, models.Checkboxes)
	rating := addQuestion(t, s, models.RatingScale)
	dependsOnColors := addQuestion(t, s, models.OpenEnded)
	dependsOnRating := addQuestion(t, s, models.OpenEnded)
	orphan := addQuestion(t, s, models.OpenEnded)

	_, err := s.UpdateQuestion(colors.ID, SetOptions([]string{"A", "B", "C"}))
	require.NoError(t, err)
	_, err = s.UpdateQuestion(dependsOnColors.ID, SetCondition(&models.Condition{QuestionID: colors.ID, Answer: models.MultiAnswer("A", "C")}))
	require.NoError(t, err)
	_, err = s.UpdateQuestion(dependsOnRating.ID, SetCondition(&models.Condition{QuestionID: rating.ID, Answer: models.SingleAnswer("4")}))
	require.NoError(t, err)
	_, err = s.UpdateQuestion(orphan.ID, SetCondition(&models.Condition{QuestionID: rating.ID, Answer: models.SingleAnswer("2")}))
	require.NoError(t, err)

	assert.Empty(t, s.Audit())

	require.NoError(t, s.DeleteOption(colors.ID, 2))
	_, err = s.UpdateQuestion(rating.ID, SetScale(3))
	require.NoError(t, err)

	assert.Equal(t, []Issue{
		{QuestionID: dependsOnColors.ID, Err: fault.ErrStaleConditionAnswer},
		{QuestionID: dependsOnRating.ID, Err: fault.ErrStaleConditionAnswer},
	}, s.Audit())

	require.NoError(t, s.DeleteQuestion(rating.ID))

	assert.Equal(t, []Issue{
		{QuestionID: dependsOnColors.ID, Err: fault.ErrStaleConditionAnswer},
		{QuestionID: dependsOnRating.ID, Err: fault.ErrDanglingCondition},
		{QuestionID: orphan.ID, Err: fault.ErrDanglingCondition},
	}, s.Audit())
}
