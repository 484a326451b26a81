package output

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// Interactive reports whether stdin is a terminal that can answer prompts.
// Callers check it first: survey fails on a pipe.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func ask[T any](p survey.Prompt, opts ...survey.AskOpt) (T, error) {
	var answer T
	err := survey.AskOne(p, &answer, opts...)
	return answer, err
}

// Confirm asks a yes/no question; the default answer is no.
func Confirm(prompt string) (bool, error) {
	return ask[bool](&survey.Confirm{Message: prompt})
}

// InputHiddenString reads a secret without echoing it.
func InputHiddenString(prompt, help string, validator func(string) error) (string, error) {
	var opts []survey.AskOpt
	if validator != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validator(s)
		}))
	}
	return ask[string](&survey.Password{Message: prompt, Help: help}, opts...)
}

func SelectString(prompt string, options []string) (string, error) {
	return ask[string](&survey.Select{Message: prompt, Options: options})
}
