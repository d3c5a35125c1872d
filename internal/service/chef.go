package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/porkchop/backend/internal/types"
)

const anthropicVersion = "2023-06-01"

var (
	substitutionReplies = []string{
		"What if I'm missing the main ingredient?",
		"Can I make this vegetarian?",
		"Thanks!",
	}
	donenessReplies = []string{
		"I don't have a thermometer",
		"How do I check without cutting into it?",
		"Thanks!",
	}
	generalReplies = []string{
		"Any tips for making this better?",
		"What side dishes go well with this?",
		"Thanks for the help!",
	}
	fallbackReplies = []string{
		"How do I know when it's done?",
		"Can I substitute ingredients?",
		"What goes well with this?",
	}
)

// ChefStumpedMessage is answered when Claude could not be reached
const ChefStumpedMessage = "Chef Freddie is a bit stumped right now. Try asking something else!"

// ChefConfig configures the Anthropic messages client
type ChefConfig struct {
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int
}

// ChefService answers cooking questions through Claude
type ChefService struct {
	cfg    ChefConfig
	client *http.Client
}

// NewChefService creates a new ChefService instance
func NewChefService(cfg ChefConfig) *ChefService {
	return &ChefService{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type claudeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Ask sends the question about recipe to Claude and returns the answer with
// follow-up suggestions
func (s *ChefService) Ask(ctx context.Context, query string, recipe types.ChefRecipe) (*types.ChefResponse, error) {
	reqBody, err := json.Marshal(claudeRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: BuildChefPrompt(query, recipe)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", s.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr claudeError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("claude API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("claude API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed claudeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("no content in claude response")
	}

	return &types.ChefResponse{
		Response:     parsed.Content[0].Text,
		QuickReplies: QuickReplies(query),
	}, nil
}

// BuildChefPrompt renders the Chef Freddie persona prompt for a recipe
func BuildChefPrompt(query string, recipe types.ChefRecipe) string {
	var b strings.Builder
	b.WriteString("You are Chef Freddie, a friendly and helpful cooking assistant.\n\n")
	b.WriteString("A user is cooking the following recipe:\n\n")
	fmt.Fprintf(&b, "Recipe: %s\n", recipe.Name)
	fmt.Fprintf(&b, "Description: %s\n", recipe.Description)
	fmt.Fprintf(&b, "Ingredients: %s\n", recipe.IngredientsText())
	fmt.Fprintf(&b, "Steps: %s\n", strings.Join(recipe.Steps, "\n"))
	fmt.Fprintf(&b, "Cook Time: %s\n", recipe.CookTime)
	fmt.Fprintf(&b, "Servings: %s\n\n", recipe.ServingsText())
	fmt.Fprintf(&b, "The user has asked: \"%s\"\n\n", query)
	b.WriteString("Please provide a helpful, personable response as Chef Freddie. Keep your answer conversational, ")
	b.WriteString("friendly, and focused on the specific recipe. Provide practical cooking advice, ")
	b.WriteString("substitution options, or tips to improve the dish.\n\n")
	b.WriteString("Your response should be in plain text, without any formatting.")
	return b.String()
}

// QuickReplies picks follow-up suggestions from keywords in the question
func QuickReplies(query string) []string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "substitute") || strings.Contains(q, "replacement"):
		return append([]string(nil), substitutionReplies...)
	case strings.Contains(q, "done") || strings.Contains(q, "ready"):
		return append([]string(nil), donenessReplies...)
	default:
		return append([]string(nil), generalReplies...)
	}
}

// FallbackQuickReplies are offered alongside ChefStumpedMessage
func FallbackQuickReplies() []string {
	return append([]string(nil), fallbackReplies...)
}
