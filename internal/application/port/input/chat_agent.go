package input

import "context"

type Reply struct {
	Text      string
	Steps     int
	ToolCalls int
}

// ChatAgent answers a single prompt, possibly using tools along the way.
type ChatAgent interface {
	Reply(ctx context.Context, prompt string) (*Reply, error)
}
