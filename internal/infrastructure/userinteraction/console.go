package userinteraction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"lens-agent/internal/domain/entity"
	"lens-agent/internal/usecase/chat"

	"github.com/fatih/color"
)

const quitCommand = "/quit"

// Console is the terminal front-end of a chat session. Each input line is
// one submit; replies are printed once the turn settles.
type Console struct {
	in  io.Reader
	out io.Writer

	self     *color.Color
	remote   *color.Color
	thinking *color.Color
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       in,
		out:      out,
		self:     color.New(color.FgGreen, color.Bold),
		remote:   color.New(color.FgCyan),
		thinking: color.New(color.Faint),
	}
}

// Run reads prompts until EOF, /quit or ctx is done.
func (c *Console) Run(ctx context.Context, session *chat.Session) error {
	last := -1
	last = c.printFrom(session.Snapshot(), last)

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.self.Fprint(c.out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == quitCommand {
			return nil
		}

		session.SetInput(line)
		if err := session.SubmitPending(ctx); err != nil {
			return fmt.Errorf("submit failed: %w", err)
		}
		c.thinking.Fprintln(c.out, chat.ThinkingText)
		session.Wait()

		last = c.printFrom(session.Snapshot(), last)
	}
}

// printFrom prints the remote messages newer than last and returns the
// highest id seen. Self messages were typed by the user and are skipped.
func (c *Console) printFrom(snap entity.Snapshot, last int) int {
	for _, m := range snap.Messages {
		if m.ID <= last {
			continue
		}
		last = m.ID
		if m.IsSelf() {
			continue
		}
		c.remote.Fprint(c.out, "lens> ")
		fmt.Fprintln(c.out, m.Text)
	}
	return last
}
