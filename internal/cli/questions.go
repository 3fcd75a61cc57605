package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paulexconde/surveybuilder/internal/models"
	"github.com/paulexconde/surveybuilder/internal/pkg/paginator"
)

func (a *app) newQuestionsCommand() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "questions SURVEY",
		Short: "List the questions of a survey in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.loadSurvey(args[0])
			if err != nil {
				return err
			}
			if limit < 1 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			result := paginator.NewPaginator[models.Question]().Paginate(loaded.Survey.Questions(), page, limit)
			out := cmd.OutOrStdout()

			offset := (result.CurrentPage - 1) * limit
			for i, q := range result.Items {
				fmt.Fprintf(out, "%d. %s [%s] %s%s\n", offset+i+1, loaded.Key(q.ID), q.Type, q.Title, describe(loaded.Key, q))
			}
			fmt.Fprintf(out, "page %d/%d (%d questions)\n", result.CurrentPage, result.TotalPages, result.TotalItems)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "questions per page")

	return cmd
}

func describe(key func(string) string, q models.Question) string {
	var parts []string

	if q.Required {
		parts = append(parts, "required")
	}
	switch body := q.Body.(type) {
	case models.Choices:
		parts = append(parts, "options: "+strings.Join(body.Options, ", "))
	case models.Scale:
		parts = append(parts, fmt.Sprintf("scale: 1..%d", body.Max))
	}
	if c := q.Condition; c != nil {
		source := key(c.QuestionID)
		if source == "" {
			source = c.QuestionID
		}
		parts = append(parts, fmt.Sprintf("when %s = %s", source, strings.Join(c.Answer.Values(), "+")))
	}

	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}
