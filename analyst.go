package analyst

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/artifact"
	"github.com/breakingread/analyst/llm"
)

const sessionName = "pirls-data-engineer"

// Pipeline answers one question at a time. Construct it once and share it;
// every call to Answer owns its own session and transcript, so concurrent
// requests are independent.
type Pipeline struct {
	model      llm.LanguageModel
	tools      []agent.Tool
	persister  *artifact.Persister
	stepBudget int
	logger     *zap.Logger
}

type Option func(*Pipeline)

// WithTools registers the tool set offered to the reasoning loop.
func WithTools(tools ...agent.Tool) Option {
	return func(p *Pipeline) {
		p.tools = tools
	}
}

// WithPersister enables durable chart storage. Without one, chart
// references stay transient and no embedding instruction is produced.
func WithPersister(persister *artifact.Persister) Option {
	return func(p *Pipeline) {
		p.persister = persister
	}
}

// WithStepBudget sets the reasoning loop's step ceiling.
func WithStepBudget(n int) Option {
	return func(p *Pipeline) {
		p.stepBudget = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline over the given model.
func NewPipeline(model llm.LanguageModel, opts ...Option) *Pipeline {
	p := &Pipeline{
		model:      model,
		stepBudget: agent.DefaultMaxSteps,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Answer runs the full pipeline for one question and returns the markdown
// narrative with the disclaimer suffix. Chart-side failures are logged and
// degrade to a chart-less answer; the caller never sees them.
func (p *Pipeline) Answer(ctx context.Context, question string) (string, error) {
	requestID := uuid.NewString()
	logger := p.logger.With(zap.String("request_id", requestID))
	logger.Info("answering question", zap.String("question", question))

	session := agent.NewSession(sessionName, p.model,
		agent.WithTools(p.tools...),
		agent.WithMaxSteps(p.stepBudget),
		agent.WithLogger(logger),
	)

	result, err := session.Run(ctx, llm.NewUserMessage(llm.NewTextPart(QueryingPrompt(question))))
	if err != nil {
		return "", err
	}
	if result.BudgetExhausted {
		logger.Warn("reasoning loop hit the step budget", zap.Int("steps", result.Steps))
	}

	artifacts := ExtractArtifacts(result.Messages)
	logger.Debug("artifacts extracted",
		zap.Bool("has_query", artifacts.ExecutedQuery != ""),
		zap.Bool("has_chart", artifacts.ChartRef != ""))

	chartInstruction := ""
	if artifacts.ChartRef != "" && p.persister != nil {
		stableURL, err := p.persister.Persist(ctx, artifacts.ChartRef)
		if err != nil {
			logger.Warn("chart persistence failed, continuing without chart", zap.Error(err))
		} else {
			chartInstruction = ChartInstruction(stableURL)
		}
	}

	return p.synthesize(ctx, question, artifacts, result.FinalText, chartInstruction)
}
