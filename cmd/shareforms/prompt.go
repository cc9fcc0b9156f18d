package main

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-shareforms/pkg/failure"
)

// Question configures a single text prompt.
type Question struct {
	Message  string
	Default  string
	Help     string
	Validate func(string) error
}

// Prompter asks the user for missing values. It is an interface so the
// command can be tested without a terminal.
type Prompter interface {
	Input(ctx context.Context, q Question) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: q.Message,
		Default: q.Default,
		Help:    q.Help,
	}
	opts := []survey.AskOpt{survey.WithValidator(survey.Required)}
	if q.Validate != nil {
		validate := q.Validate
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", failure.Usage(failure.CodeUsage, "interrupted")
		}
		return "", err
	}
	return out, nil
}
