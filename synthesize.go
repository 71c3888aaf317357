package analyst

import (
	"context"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/llm"
)

// synthesize performs the second, tool-less model call that turns the raw
// run output into the user-facing narrative, and appends the disclaimer.
// The raw final-answer text of the run is treated as "the query result"
// even when it is prose, since the reasoning loop may already have
// summarized it.
func (p *Pipeline) synthesize(ctx context.Context, question string, artifacts Artifacts, rawResult, chartInstruction string) (string, error) {
	prompt := FinalPrompt(question, artifacts.ExecutedQuery, rawResult, chartInstruction)

	response, err := p.model.Generate(ctx, &llm.LanguageModelInput{
		SystemPrompt: &prompt,
		Messages: []llm.Message{
			llm.NewUserMessage(llm.NewTextPart(question)),
		},
	})
	if err != nil {
		return "", agent.NewLanguageModelError(err)
	}

	return llm.TextContent(response.Content) + Disclaimer, nil
}
