package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Service wraps the Gemini client used for gift-message suggestions.
type Service struct {
	Client *genai.Client
}

// NewService initializes the Gemini client.
func NewService(apiKey string) (*Service, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Service{Client: client}, nil
}

// SuggestGiftMessage generates short gift-card message suggestions for a
// customized item. occasion and recipient come from the customer; tone is
// optional ("heartfelt", "funny", ...).
func (s *Service) SuggestGiftMessage(ctx context.Context, occasion, recipient, tone string, modelName string) ([]string, error) {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := s.Client.GenerativeModel(modelName)

	if tone == "" {
		tone = "warm"
	}
	prompt := fmt.Sprintf(
		"Write 3 short gift card messages (under 30 words each) for a %s gift for %s. Tone: %s. "+
			"Return one message per line with no numbering and no quotes.",
		occasion, recipient, tone,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gift message generation failed: %w", err)
	}

	var raw strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				raw.WriteString(string(text))
			}
		}
	}

	var suggestions []string
	for _, line := range strings.Split(raw.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			suggestions = append(suggestions, line)
		}
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("model returned no suggestions")
	}
	return suggestions, nil
}
