package executor

import (
	"context"
	"fmt"

	"lens-agent/internal/application/port/input"
	"lens-agent/internal/application/port/output"
	"lens-agent/internal/domain/entity"
	"lens-agent/internal/infrastructure/prompts"
)

var _ input.ChatAgent = (*UseCase)(nil)

const (
	DefaultMaxSteps   = 5
	maxObservationLen = 20000
)

type Config struct {
	// SystemPrompt is a template rendered with the tools of each turn.
	// Empty sends the prompt alone.
	SystemPrompt string
	ChainName    string
	MaxSteps     int
	Temperature  float32
}

func DefaultConfig() Config {
	return Config{
		SystemPrompt: prompts.DefaultSystemPrompt,
		MaxSteps:     DefaultMaxSteps,
	}
}

// UseCase answers a prompt with a bounded tool calling loop: every model
// step may request tools, whose observations feed the next step.
type UseCase struct {
	llm    output.LLMPort
	tools  output.ToolProvider
	logger output.LoggerPort
	cfg    Config
}

func New(
	llm output.LLMPort,
	tools output.ToolProvider,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	return &UseCase{
		llm:    llm,
		tools:  tools,
		logger: logger,
		cfg:    cfg,
	}
}

func (uc *UseCase) Reply(ctx context.Context, prompt string) (*input.Reply, error) {
	tools, err := uc.tools.Tools(ctx)
	if err != nil {
		return nil, fmt.Errorf("build tool set: %w", err)
	}

	messages := make([]entity.Message, 0, 2)
	if uc.cfg.SystemPrompt != "" {
		system, err := prompts.GenerateSystemPrompt(uc.cfg.SystemPrompt, uc.cfg.ChainName, tools)
		if err != nil {
			return nil, fmt.Errorf("render system prompt: %w", err)
		}
		messages = append(messages, entity.Message{Role: entity.RoleSystem, Content: system})
	}
	messages = append(messages, entity.Message{Role: entity.RoleUser, Content: prompt})

	toolDefs := tools.Definitions()
	reply := &input.Reply{}

	for step := 1; step <= uc.cfg.MaxSteps; step++ {
		uc.logger.Debug("Starting step", "step", step)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		reply.Steps = step
		reply.Text = resp.Message.Content
		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return reply, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			reply.ToolCalls++
			observation := uc.executeTool(ctx, tools, tc)

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name.String(),
				Content:    observation,
			})
		}
	}

	// Out of steps: the last step's text stands as the answer, even if empty.
	uc.logger.Warn("Step budget exhausted", "maxSteps", uc.cfg.MaxSteps, "toolCalls", reply.ToolCalls)
	return reply, nil
}

func (uc *UseCase) executeTool(ctx context.Context, tools output.ToolRegistry, tc entity.ToolCall) string {
	tool, ok := tools.Get(tc.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error()
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}
