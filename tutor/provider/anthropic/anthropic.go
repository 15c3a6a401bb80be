// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package anthropic implements a tutor.Provider backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/go-a2a/tutor-agent/tutor"
)

// DefaultModel is the Claude model used when none is configured.
const DefaultModel = sdk.ModelClaudeSonnet4_20250514

const defaultMaxTokens = 8192

// Provider calls the Anthropic Messages API.
type Provider struct {
	client    sdk.Client
	model     sdk.Model
	maxTokens int64
}

var _ tutor.Provider = (*Provider)(nil)

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey is the Anthropic API key. Required.
	APIKey string
	// Model is the Claude model to use. Defaults to DefaultModel.
	Model string
	// MaxTokens caps the completion length. Defaults to 8192.
	MaxTokens int64
}

// New creates a new Anthropic provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key cannot be empty")
	}

	model := DefaultModel
	if cfg.Model != "" {
		model = sdk.Model(cfg.Model)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Provider{
		client:    sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Generate implements [tutor.Provider].
func (p *Provider) Generate(ctx context.Context, systemInstruction, contextText string) (string, error) {
	resp, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemInstruction},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(contextText)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: message request failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(sdk.TextBlock); ok {
			text += variant.Text
		}
	}
	return text, nil
}
