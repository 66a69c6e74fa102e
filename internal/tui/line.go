package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/nebula-downloader/internal/model"
)

// LinePrompter asks for a selection on plain text streams, one line per
// prompt.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	// pending holds the result of a read abandoned on cancellation. Only one
	// goroutine reads from in at a time; the next prompt takes its line.
	pending chan lineResult
}

// NewLinePrompter creates a LinePrompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Select prints the ALL, INCLUDED and EXCLUDED lists, then reads the
// excluded line followed by the included line.
func (p *LinePrompter) Select(ctx context.Context, view model.ChannelView) (model.SelectionRequest, error) {
	title := view.Channel.Title
	if title == "" {
		title = view.Channel.Slug
	}
	fmt.Fprintf(p.out, "\n== %s ==\n", title)

	for _, s := range sections(view) {
		fmt.Fprintf(p.out, "\n%s:\n", s.name)
		for i, ep := range s.episodes {
			fmt.Fprintln(p.out, ep.DisplayLine(i))
		}
	}
	fmt.Fprintln(p.out)

	var req model.SelectionRequest
	var err error

	req.Excluded, err = p.readLine(ctx, "Enter the numbers of EXCLUDED episodes to download (comma separated, blank for none): ")
	if err != nil {
		return model.SelectionRequest{}, err
	}
	req.Included, err = p.readLine(ctx, "Enter the numbers of INCLUDED episodes to download (comma separated, blank for none): ")
	if err != nil {
		return model.SelectionRequest{}, err
	}
	return req, nil
}

type lineResult struct {
	line string
	err  error
}

// readLine reads one line without its terminator. A final line without a
// newline is accepted; end of input before any text is an error.
func (p *LinePrompter) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)

	ch := p.pending
	if ch == nil {
		ch = make(chan lineResult, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			if errors.Is(err, io.EOF) && line != "" {
				err = nil
			}
			ch <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		}()
	}

	select {
	case <-ctx.Done():
		p.pending = ch
		return "", ctx.Err()
	case r := <-ch:
		p.pending = nil
		if r.err != nil {
			return "", fmt.Errorf("read selection: %w", r.err)
		}
		return r.line, nil
	}
}
