package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/stride-league-api/internal/challenge"
	"github.com/yukikurage/stride-league-api/internal/models"
)

// ChallengeNarrator names generated challenges.
type ChallengeNarrator interface {
	Titles(ctx context.Context, specs []challenge.Spec) ([]string, error)
}

// OpenAINarrator asks a chat model for short, motivating challenge titles.
type OpenAINarrator struct {
	client *openai.Client
}

func NewOpenAINarrator(apiKey string) *OpenAINarrator {
	return &OpenAINarrator{
		client: openai.NewClient(apiKey),
	}
}

// Titles returns one title per spec, in order.
func (n *OpenAINarrator) Titles(ctx context.Context, specs []challenge.Spec) ([]string, error) {
	if n.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	lines := make([]string, len(specs))
	for i, spec := range specs {
		lines[i] = fmt.Sprintf("%d. %s, %d km", i+1, spec.Difficulty, spec.Length)
	}
	prompt := fmt.Sprintf(`You name daily running and walking challenges for teams of two.
Write one short, upbeat title (at most 6 words) for each challenge below.

%s

Return only a JSON array of %d strings in the same order, with no explanation.`, strings.Join(lines, "\n"), len(specs))

	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var titles []string
	if err := json.Unmarshal([]byte(content), &titles); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	if len(titles) != len(specs) {
		return nil, fmt.Errorf("expected %d titles, got %d", len(specs), len(titles))
	}

	return titles, nil
}

// DefaultTitle is used when no narrator is configured or it fails, e.g. "Easy 3 km".
func DefaultTitle(difficulty models.Difficulty, length float64) string {
	d := string(difficulty)
	if d != "" {
		d = strings.ToUpper(d[:1]) + d[1:]
	}
	return fmt.Sprintf("%s %g km", d, length)
}
