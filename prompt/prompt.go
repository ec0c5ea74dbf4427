package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"yellowpages-scraper/exporter"
	"yellowpages-scraper/picker"
)

// ErrInvalidChoice is returned when a menu answer matches no option
var ErrInvalidChoice = errors.New("invalid choice")

// Prompter asks questions on a line-oriented console
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter reading answers from in and writing questions to out
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints the question on its own line and returns the next input line
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintln(p.out, question)
	return p.readLine()
}

// AskRequired repeats the question until a non-blank answer is given
func (p *Prompter) AskRequired(question string) (string, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			return answer, nil
		}
	}
}

// SearchTerm asks for the free-text search term
func (p *Prompter) SearchTerm() (string, error) {
	return p.AskRequired("Enter search term and press 'Enter': ")
}

// ZipCode asks for the postal code
func (p *Prompter) ZipCode() (string, error) {
	return p.AskRequired("Enter Zip Code and press 'Enter': ")
}

// ConfirmSave asks whether to save the results. Only y or yes count as consent.
func (p *Prompter) ConfirmSave() (bool, error) {
	fmt.Fprintln(p.out)
	answer, err := p.Ask("Would you like to save the results to file? (Y/N)?")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ChooseFormat shows the A/B format menu and maps the first character of the answer
func (p *Prompter) ChooseFormat() (exporter.Format, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Choose how you'd like to save your file... Type A or B and press 'Enter'.")
	fmt.Fprintln(p.out, "A - .json")
	answer, err := p.Ask("B - .csv")
	if err != nil {
		return "", err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "" {
		switch answer[0] {
		case 'a':
			return exporter.FormatJSON, nil
		case 'b':
			return exporter.FormatCSV, nil
		}
	}

	fmt.Fprintln(p.out, "Invalid Response. Please select either A or B and press 'Enter'.")
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
}

// WaitForEnter blocks until a line (or EOF) is read
func (p *Prompter) WaitForEnter() {
	fmt.Fprintln(p.out, "Press 'Enter' to end.")
	_, _ = p.readLine()
}

// PickSavePath implements exporter.Picker on plain lines, for input that
// is not a terminal. A blank answer or EOF cancels.
func (p *Prompter) PickSavePath(title string, filter exporter.FileFilter) (string, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, title)
	answer, err := p.Ask(fmt.Sprintf("File name, %s (blank to cancel):", filter.Label))
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", nil
	}
	return picker.ResolvePath(answer, filter)
}

// Buffered reports how many bytes were read ahead and not yet consumed
func (p *Prompter) Buffered() int {
	return p.in.Buffered()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
