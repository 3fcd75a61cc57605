package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paulexconde/surveybuilder/internal/definition"
	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/internal/services"
)

var errSubmissionBlocked = errors.New("submission blocked")

func (a *app) newCheckCommand() *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "check SURVEY",
		Short: "Audit conditions and evaluate visibility for an answer sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.loadSurvey(args[0])
			if err != nil {
				return err
			}

			answers := models.AnswerSet{}
			if answersPath != "" {
				if answers, err = a.loadAnswers(loaded, answersPath); err != nil {
					return err
				}
			}

			return a.check(cmd.OutOrStdout(), loaded, answers)
		},
	}
	cmd.Flags().StringVarP(&answersPath, "answers", "a", "", "YAML answer sheet keyed by question key")

	return cmd
}

func (a *app) loadAnswers(loaded *definition.Loaded, path string) (models.AnswerSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loaded.DecodeAnswers(f)
}

func (a *app) check(out io.Writer, loaded *definition.Loaded, answers models.AnswerSet) error {
	survey := loaded.Survey
	conditions := services.NewConditionService(survey)
	submissions := services.NewSubmissionService(conditions)

	fmt.Fprintf(out, "Survey: %s (%d questions)\n", survey.Title(), survey.Len())

	if issues := survey.Audit(); len(issues) > 0 {
		fmt.Fprintln(out, "Issues:")
		for _, issue := range issues {
			a.logger.Warn("condition issue", "question", loaded.Key(issue.QuestionID), "error", issue.Err)
			fmt.Fprintf(out, "  %s: %v\n", loaded.Key(issue.QuestionID), issue.Err)
		}
	}

	fmt.Fprintln(out, "Visibility:")
	for _, q := range survey.Questions() {
		mark := " "
		if conditions.IsVisible(q, answers) {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %s (%s) %s\n", mark, loaded.Key(q.ID), q.Type, q.Title)
	}

	if err := submissions.Validate(answers); err != nil {
		var subErr *services.SubmissionError
		if !errors.As(err, &subErr) {
			return err
		}
		fmt.Fprintln(out, "Submission: blocked")
		for _, v := range subErr.Violations {
			fmt.Fprintf(out, "  %s: %v\n", loaded.Key(v.QuestionID), v.Err)
		}
		return errSubmissionBlocked
	}

	fmt.Fprintln(out, "Submission: ok")
	return nil
}
