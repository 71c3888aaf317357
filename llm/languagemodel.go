// Package llm defines the message data model and the language model
// interface the reasoning pipeline is built on. Messages and parts are
// tagged unions with an explicit role/type discriminant so consumers can
// pattern-match on the discriminant instead of relying on type identity.
package llm

import "context"

type ProviderName string

type LanguageModel interface {
	Provider() ProviderName
	ModelID() string
	Generate(ctx context.Context, input *LanguageModelInput) (*ModelResponse, error)
}
