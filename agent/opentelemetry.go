package agent

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Initialize the tracer lazily to allow user to have a chance to configure the global tracer provider
var tracer = otel.Tracer("github.com/breakingread/analyst/agent")

// traceRun wraps a session run in a span carrying gen_ai semantic-convention
// attributes.
func traceRun(ctx context.Context, sessionName string, fn func(ctx context.Context) (*RunResult, error)) (*RunResult, error) {
	spanCtx, span := tracer.Start(ctx, "agent.run")
	defer span.End()

	span.SetAttributes(
		attribute.String("gen_ai.operation.name", "invoke_agent"),
		attribute.String("gen_ai.agent.name", sessionName),
	)

	result, err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if result.Usage != nil {
		span.SetAttributes(
			attribute.Int64("gen_ai.model.input_tokens", int64(result.Usage.InputTokens)),
			attribute.Int64("gen_ai.model.output_tokens", int64(result.Usage.OutputTokens)),
		)
	}
	return result, nil
}

// startActiveToolSpan creates a span for tool execution
func startActiveToolSpan(
	ctx context.Context,
	toolCallID string,
	toolName string,
	toolDescription string,
	fn func(context.Context) (ToolResult, error),
) (ToolResult, error) {
	spanCtx, span := tracer.Start(ctx, "agent.tool")
	defer func() {
		span.SetAttributes(
			attribute.String("gen_ai.operation.name", "execute_tool"),
			attribute.String("gen_ai.tool.call.id", toolCallID),
			attribute.String("gen_ai.tool.description", toolDescription),
			attribute.String("gen_ai.tool.name", toolName),
			attribute.String("gen_ai.tool.type", "function"),
		)
		span.End()
	}()

	res, err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ToolResult{}, err
	}

	return res, nil
}
