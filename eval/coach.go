// ABOUTME: Generative next-step coaching via the Gemini API
// ABOUTME: Scores user-authored task text against a fixed quality rubric
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/gsteen1788/bd-os-sub000/models"
)

const defaultModel = "gemini-2.0-flash"

const rubricPrompt = `You are a business-development coach. Score the following
next-step text for a sales task. A good next step is specific, time-bound,
within the author's control, and moves the relationship or deal forward.

Respond with only a JSON object:
{"score": <0-100>, "feedback": "<one or two sentences>", "suggestions": ["<improvement>", ...]}

Next step:
`

// Verdict is the structured coaching result.
type Verdict struct {
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Coach evaluates task text quality. It is consumed only by the CLI and
// MCP surfaces; the persistence layer never calls it.
type Coach struct {
	client *genai.Client
	model  string
}

// NewCoach creates a coach backed by the Gemini API.
func NewCoach(ctx context.Context, apiKey, model string) (*Coach, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Coach{client: client, model: model}, nil
}

// EvaluateNextStep scores a single next-step description.
func (c *Coach) EvaluateNextStep(ctx context.Context, text string) (*Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("next-step text is empty")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(rubricPrompt+text, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return parseVerdict(resp.Text())
}

// EvaluateMIT checks an MIT task's B.I.G. qualifiers before scoring its
// title as a next step. Missing qualifiers short-circuit to a zero
// verdict without an API call.
func (c *Coach) EvaluateMIT(ctx context.Context, task *models.Task) (*Verdict, error) {
	if task.Type == models.TaskMIT && !task.QualifiesAsMIT() {
		return &Verdict{
			Score:    0,
			Feedback: "MIT tasks need all three qualifiers: big impact, in your control, growth-oriented.",
		}, nil
	}
	return c.EvaluateNextStep(ctx, task.Title)
}

// parseVerdict tolerates markdown code fences around the JSON body.
func parseVerdict(raw string) (*Verdict, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdict Verdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return nil, fmt.Errorf("unparseable verdict %q: %w", raw, err)
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 100 {
		verdict.Score = 100
	}
	return &verdict, nil
}
