// Package console reads line-based answers from the player.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrInputClosed is returned when input ends before a valid answer was read.
var ErrInputClosed = errors.New("input closed before a valid answer was given")

// UsernameLength is the exact rune count a username must have.
const UsernameLength = 3

// Prompter writes questions to out and reads answers from in, one line each.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Prompt writes question and returns the next line without its terminator.
func (p *Prompter) Prompt(question string) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimNewline(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return trimNewline(line), nil
}

// Choose asks question until the normalized answer is one of choices.
// normalize may be nil.
func (p *Prompter) Choose(question string, normalize func(string) string, choices ...string) (string, error) {
	for {
		answer, err := p.Prompt(question)
		if err != nil {
			return "", err
		}
		if normalize != nil {
			answer = normalize(answer)
		}
		if slices.Contains(choices, answer) {
			return answer, nil
		}
	}
}

// PromptUsername asks for a username until the upper-cased answer is exactly
// UsernameLength characters long. Any character counts, whitespace included.
func (p *Prompter) PromptUsername() (string, error) {
	question := fmt.Sprintf("Enter your username (%d characters): ", UsernameLength)
	for {
		answer, err := p.Prompt(question)
		if err != nil {
			return "", err
		}
		username := strings.ToUpper(answer)
		if utf8.RuneCountInString(username) == UsernameLength {
			return username, nil
		}
	}
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
