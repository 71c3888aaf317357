// Package llmtest provides a mock language model for testing.
package llmtest

import (
	"context"
	"errors"

	"github.com/breakingread/analyst/llm"
)

// MockGenerateResult is a result for a mocked Generate call.
// It can either be a full response or an error.
type MockGenerateResult struct {
	Response *llm.ModelResponse
	Error    error
}

// NewMockGenerateResultResponse constructs a generate result with a response.
func NewMockGenerateResultResponse(response llm.ModelResponse) MockGenerateResult {
	return MockGenerateResult{Response: &response}
}

// NewMockGenerateResultError constructs a generate result that yields an error.
func NewMockGenerateResultError(err error) MockGenerateResult {
	return MockGenerateResult{Error: err}
}

// MockLanguageModel is a mock language model that tracks inputs and
// returns predefined outputs in order.
type MockLanguageModel struct {
	mockedGenerateResults []MockGenerateResult
	trackedGenerateInputs []llm.LanguageModelInput
}

// NewMockLanguageModel constructs a mock language model instance.
func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{}
}

// Provider returns the provider name of the mock language model.
func (m *MockLanguageModel) Provider() llm.ProviderName {
	return "mock"
}

// ModelID returns the model identifier of the mock language model.
func (m *MockLanguageModel) ModelID() string {
	return "mock-model"
}

// Generate returns the next mocked generate result, tracking the provided input.
func (m *MockLanguageModel) Generate(_ context.Context, input *llm.LanguageModelInput) (*llm.ModelResponse, error) {
	if len(m.mockedGenerateResults) == 0 {
		return nil, errors.New("no mocked generate results available")
	}

	result := m.mockedGenerateResults[0]
	m.mockedGenerateResults = m.mockedGenerateResults[1:]
	m.trackedGenerateInputs = append(m.trackedGenerateInputs, *input)

	if result.Error != nil {
		return nil, result.Error
	}

	return result.Response, nil
}

// EnqueueGenerateResult enqueues generate results to be returned sequentially.
func (m *MockLanguageModel) EnqueueGenerateResult(results ...MockGenerateResult) {
	m.mockedGenerateResults = append(m.mockedGenerateResults, results...)
}

// TrackedGenerateInputs returns the list of inputs tracked from Generate calls.
func (m *MockLanguageModel) TrackedGenerateInputs() []llm.LanguageModelInput {
	return m.trackedGenerateInputs
}

// Restore clears enqueued results and tracked inputs.
func (m *MockLanguageModel) Restore() {
	m.mockedGenerateResults = nil
	m.trackedGenerateInputs = nil
}
