// Package agent drives a bounded reasoning loop between a language model
// and a set of registered tools. The loop is an explicit iteration counter,
// not recursion: each step sends the full transcript to the model, executes
// whatever tool calls come back, appends the results, and goes around again
// until the model answers in plain text or the step budget runs out.
package agent

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/breakingread/analyst/llm"
)

// DefaultMaxSteps bounds runaway reasoning. Hitting it is a safety valve,
// not a normal termination path.
const DefaultMaxSteps = 150

// Session owns one bounded reasoning run. It is single-use and not safe
// for concurrent use; concurrent callers each build their own session.
type Session struct {
	name        string
	model       llm.LanguageModel
	tools       []Tool
	maxSteps    int
	temperature *float64
	logger      *zap.Logger
}

type Option func(*Session)

// WithTools registers the tools the model may invoke during the run.
func WithTools(tools ...Tool) Option {
	return func(s *Session) {
		s.tools = tools
	}
}

// WithMaxSteps sets the step budget: the number of reasoning/tool cycles
// permitted before the loop force-terminates.
func WithMaxSteps(n int) Option {
	return func(s *Session) {
		s.maxSteps = n
	}
}

// WithTemperature sets the sampling temperature for model calls.
func WithTemperature(t float64) Option {
	return func(s *Session) {
		s.temperature = &t
	}
}

// WithLogger sets the logger used for per-step progress.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session for one run of the reasoning loop.
func NewSession(name string, model llm.LanguageModel, opts ...Option) *Session {
	s := &Session{
		name:     name,
		model:    model,
		maxSteps: DefaultMaxSteps,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunResult is the output contract of a run: the full transcript in causal
// order plus the designated final answer.
type RunResult struct {
	// Messages holds every message of the session, seed included.
	Messages []llm.Message
	// FinalText is the text of the final answer. When the budget was
	// exhausted it is whatever trailing content existed at that point.
	FinalText string
	// Steps is the number of reasoning/tool cycles that completed.
	Steps int
	// BudgetExhausted reports that the loop was force-terminated.
	BudgetExhausted bool
	// Usage accumulates token usage over all model calls, when reported.
	Usage *llm.ModelUsage
}

// Run executes the reasoning loop seeded with the given messages.
//
// Budget exhaustion is not an error: the trailing content is promoted to
// the final answer and the transcript is returned as-is. Tool results that
// carry IsError are appended to the transcript like any other result so
// the model can observe the failure and adapt; only a tool returning a Go
// error interrupts the run.
func (s *Session) Run(ctx context.Context, seed ...llm.Message) (*RunResult, error) {
	if len(seed) == 0 {
		return nil, NewInvariantError("no seed messages for the run")
	}

	return traceRun(ctx, s.name, func(ctx context.Context) (*RunResult, error) {
		messages := slices.Clone(seed)
		var usage *llm.ModelUsage
		steps := 0

		for {
			if steps >= s.maxSteps {
				s.logger.Warn("step budget exhausted, promoting trailing content",
					zap.String("session", s.name),
					zap.Int("max_steps", s.maxSteps))
				return &RunResult{
					Messages:        messages,
					FinalText:       trailingText(messages[len(messages)-1]),
					Steps:           steps,
					BudgetExhausted: true,
					Usage:           usage,
				}, nil
			}

			response, err := s.model.Generate(ctx, s.turnInput(messages))
			if err != nil {
				return nil, NewLanguageModelError(err)
			}
			if response.Usage != nil {
				if usage == nil {
					usage = &llm.ModelUsage{}
				}
				usage.Add(response.Usage)
			}

			messages = append(messages, llm.NewAssistantMessage(response.Content...))

			var toolCalls []*llm.ToolCallPart
			for _, part := range response.Content {
				if part.ToolCallPart != nil {
					toolCalls = append(toolCalls, part.ToolCallPart)
				}
			}

			if len(toolCalls) == 0 {
				return &RunResult{
					Messages:  messages,
					FinalText: llm.TextContent(response.Content),
					Steps:     steps,
					Usage:     usage,
				}, nil
			}

			for _, call := range toolCalls {
				tool := s.findTool(call.ToolName)
				if tool == nil {
					return nil, NewInvariantError("tool " + call.ToolName + " not found for tool call")
				}

				s.logger.Debug("executing tool",
					zap.String("session", s.name),
					zap.String("tool", call.ToolName),
					zap.String("tool_call_id", call.ToolCallID))

				result, err := startActiveToolSpan(
					ctx,
					call.ToolCallID,
					call.ToolName,
					tool.Description(),
					func(ctx context.Context) (ToolResult, error) {
						res, err := tool.Execute(ctx, call.Args)
						if err != nil {
							return ToolResult{}, NewToolExecutionError(err)
						}
						return res, nil
					},
				)
				if err != nil {
					return nil, err
				}

				messages = append(messages, llm.NewToolMessage(
					llm.NewToolResultPart(call.ToolCallID, call.ToolName, result.Content, result.IsError),
				))
			}

			steps++
		}
	})
}

func (s *Session) turnInput(messages []llm.Message) *llm.LanguageModelInput {
	input := &llm.LanguageModelInput{
		Messages:    messages,
		Temperature: s.temperature,
	}
	if len(s.tools) > 0 {
		defs := make([]llm.Tool, 0, len(s.tools))
		for _, tool := range s.tools {
			defs = append(defs, llm.Tool{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			})
		}
		input.Tools = defs
	}
	return input
}

// trailingText extracts whatever human-readable text a message carries,
// descending into tool results. Used when the step budget forces the run
// to stop on a message that is not a plain-text answer.
func trailingText(m llm.Message) string {
	var sb strings.Builder
	for _, part := range m.Content() {
		switch {
		case part.TextPart != nil:
			sb.WriteString(part.TextPart.Text)
		case part.ToolResultPart != nil:
			sb.WriteString(llm.TextContent(part.ToolResultPart.Content))
		}
	}
	return sb.String()
}

func (s *Session) findTool(name string) Tool {
	for _, tool := range s.tools {
		if tool.Name() == name {
			return tool
		}
	}
	return nil
}
