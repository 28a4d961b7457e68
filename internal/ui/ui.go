package ui

import (
	"errors"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	pderrors "pagesdrop/pkg/errors"
)

// Prompter collects operator input. Implementations block until the operator
// answers.
type Prompter interface {
	// Input asks for a line of text
	Input(message, help string) (string, error)
	// Password asks for a line of text without echoing it
	Password(message, help string) (string, error)
	// WaitForEnter blocks until the operator confirms with Enter
	WaitForEnter(message string) error
}

// SurveyPrompter asks questions on a terminal
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a prompter reading from in and drawing on out
func NewSurveyPrompter(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyPrompter {
	return &SurveyPrompter{
		opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)},
	}
}

// NewTerminalPrompter creates a prompter on the process's standard streams
func NewTerminalPrompter() *SurveyPrompter {
	return NewSurveyPrompter(os.Stdin, os.Stdout, os.Stderr)
}

// Input displays a text input prompt
func (p *SurveyPrompter) Input(message, help string) (string, error) {
	var result string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
	}

	err := survey.AskOne(prompt, &result, p.opts...)
	return result, askError(err)
}

// Password displays a masked input prompt
func (p *SurveyPrompter) Password(message, help string) (string, error) {
	var result string
	prompt := &survey.Password{
		Message: message,
		Help:    help,
	}

	err := survey.AskOne(prompt, &result, p.opts...)
	return result, askError(err)
}

// WaitForEnter displays message and waits for the operator to press Enter
func (p *SurveyPrompter) WaitForEnter(message string) error {
	var ignored string
	prompt := &survey.Input{
		Message: message,
	}

	return askError(survey.AskOne(prompt, &ignored, p.opts...))
}

// askError reports an interrupted prompt as a cancelled run
func askError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
		return pderrors.Wrap(err, pderrors.ErrCodeUserInput, "Input cancelled").
			WithSeverity(pderrors.SeverityCritical)
	}
	return pderrors.Wrap(err, pderrors.ErrCodeUserInput, "Failed to read input")
}
