// Package integrations holds the external-service clients: the OpenAI
// generation/translation client and the Stripe payment gateway.
package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/designlab-hq/designlab/internal/domain/assistant"
	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/library"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// OpenAIClient backs every AI surface: the Double Diamond phase generator,
// the assistant chat, the MVP asset generator and the library translator.
// All structured calls use JSON response mode and unmarshal strictly; a
// malformed model reply is an error, never a partial write.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, model string, log *logger.Logger) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: log,
	}
}

// chatJSON runs one JSON-mode completion and unmarshals the reply into out.
func (c *OpenAIClient) chatJSON(ctx context.Context, system, prompt string, out interface{}) error {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("empty completion response")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		c.logger.ErrorWithErr(err, "Completion payload did not match schema")
		return fmt.Errorf("malformed completion payload: %w", err)
	}
	return nil
}

const generatorSystem = "You are a design thinking facilitator. Answer strictly as JSON matching the requested schema. Write all generated content in the requested language."

// Discover generates pain points, insights, user needs and an empathy map
// for the sector.
func (c *OpenAIClient) Discover(ctx context.Context, in doublediamond.DiscoverInput) (*doublediamond.DiscoverOutput, error) {
	prompt := fmt.Sprintf(`Run the Discover phase of the Double Diamond for this challenge.
Sector: %s
Success case to draw from: %s
Target audience: %s
Problem statement: %s
Language: %s

Respond as JSON: {"pain_points": [5-7 strings], "insights": [4-6 strings], "user_needs": [4-6 strings], "empathy_map": {"says": [...], "thinks": [...], "does": [...], "feels": [...]}}`,
		in.Sector, orUnknown(in.SuccessCase), orUnknown(in.TargetAudience), orUnknown(in.ProblemStatement), languageName(in.Language))

	var out struct {
		PainPoints []string                 `json:"pain_points"`
		Insights   []string                 `json:"insights"`
		UserNeeds  []string                 `json:"user_needs"`
		EmpathyMap doublediamond.EmpathyMap `json:"empathy_map"`
	}
	if err := c.chatJSON(ctx, generatorSystem, prompt, &out); err != nil {
		return nil, err
	}

	return &doublediamond.DiscoverOutput{
		PainPoints: out.PainPoints,
		Insights:   out.Insights,
		UserNeeds:  out.UserNeeds,
		EmpathyMap: out.EmpathyMap,
	}, nil
}

// Define generates POV statements and HMW questions from discover outputs.
func (c *OpenAIClient) Define(ctx context.Context, in doublediamond.DefineInput) (*doublediamond.DefineOutput, error) {
	prompt := fmt.Sprintf(`Run the Define phase of the Double Diamond.
Pain points: %s
User needs: %s
Insights: %s
Language: %s

Respond as JSON: {"pov_statements": [{"user": "...", "need": "...", "insight": "...", "full_statement": "..."}] (3 items), "hmw_questions": [5 strings starting with "How might we"]}`,
		bulleted(in.PainPoints), bulleted(in.UserNeeds), bulleted(in.Insights), languageName(in.Language))

	var out struct {
		PovStatements []doublediamond.PovStatement `json:"pov_statements"`
		HmwQuestions  []string                     `json:"hmw_questions"`
	}
	if err := c.chatJSON(ctx, generatorSystem, prompt, &out); err != nil {
		return nil, err
	}

	return &doublediamond.DefineOutput{
		PovStatements: out.PovStatements,
		HmwQuestions:  out.HmwQuestions,
	}, nil
}

// Develop generates ideas plus cross-pollinated variants for the selected
// POV and HMW question.
func (c *OpenAIClient) Develop(ctx context.Context, in doublediamond.DevelopInput) (*doublediamond.DevelopOutput, error) {
	prompt := fmt.Sprintf(`Run the Develop phase of the Double Diamond.
Point of view: %s
How might we: %s
Sector: %s
Language: %s

Respond as JSON: {"ideas": [{"title": "...", "description": "...", "category": "..."}] (6-8 items), "cross_pollinated_ideas": [same shape] (2-3 items inspired by other industries)}`,
		in.SelectedPov.FullStatement, in.SelectedHmw, in.Sector, languageName(in.Language))

	var out struct {
		Ideas                []doublediamond.Idea `json:"ideas"`
		CrossPollinatedIdeas []doublediamond.Idea `json:"cross_pollinated_ideas"`
	}
	if err := c.chatJSON(ctx, generatorSystem, prompt, &out); err != nil {
		return nil, err
	}

	return &doublediamond.DevelopOutput{
		Ideas:                out.Ideas,
		CrossPollinatedIdeas: out.CrossPollinatedIdeas,
	}, nil
}

// Deliver generates the MVP concept, branding material and a test plan
// sketch for the selected ideas.
func (c *OpenAIClient) Deliver(ctx context.Context, in doublediamond.DeliverInput) (*doublediamond.DeliverOutput, error) {
	pov := ""
	if in.SelectedPov != nil {
		pov = in.SelectedPov.FullStatement
	}
	ideas := make([]string, len(in.SelectedIdeas))
	for i, idea := range in.SelectedIdeas {
		ideas[i] = idea.Title + ": " + idea.Description
	}

	prompt := fmt.Sprintf(`Run the Deliver phase of the Double Diamond.
Selected ideas: %s
Point of view: %s
Sector: %s
Language: %s

Respond as JSON: {"mvp_concept": {"name": "...", "description": "...", "core_features": [...], "value_proposition": "..."}, "logo_suggestions": [3 strings], "landing_page": {"headline": "...", "subheadline": "...", "sections": [...], "call_to_action": "..."}, "social_media_lines": [5 strings], "test_plan": {"objectives": [...], "methods": [...], "metrics": [...], "participants": 5, "duration_minutes": 30}}`,
		bulleted(ideas), orUnknown(pov), in.Sector, languageName(in.Language))

	var out struct {
		MvpConcept       doublediamond.MvpConcept    `json:"mvp_concept"`
		LogoSuggestions  []string                    `json:"logo_suggestions"`
		LandingPage      doublediamond.LandingPage   `json:"landing_page"`
		SocialMediaLines []string                    `json:"social_media_lines"`
		TestPlan         doublediamond.TestPlanDraft `json:"test_plan"`
	}
	if err := c.chatJSON(ctx, generatorSystem, prompt, &out); err != nil {
		return nil, err
	}

	return &doublediamond.DeliverOutput{
		MvpConcept:       out.MvpConcept,
		LogoSuggestions:  out.LogoSuggestions,
		LandingPage:      out.LandingPage,
		SocialMediaLines: out.SocialMediaLines,
		TestPlan:         out.TestPlan,
	}, nil
}

// DFV scores the MVP concept on desirability, feasibility and viability.
func (c *OpenAIClient) DFV(ctx context.Context, in doublediamond.DFVInput) (*doublediamond.DFVOutput, error) {
	pov := ""
	if in.SelectedPov != nil {
		pov = in.SelectedPov.FullStatement
	}

	prompt := fmt.Sprintf(`Score this MVP concept on the Desirability/Feasibility/Viability framework, each 0-100.
MVP: %s - %s
Point of view: %s
Sector: %s
Language: %s

Respond as JSON: {"desirability_score": 0-100, "feasibility_score": 0-100, "viability_score": 0-100, "analysis": {"desirability": "...", "feasibility": "...", "viability": "...", "recommendations": [...], "next_steps": [...], "overall_assessment": "..."}}`,
		in.MvpConcept.Name, in.MvpConcept.Description, orUnknown(pov), in.Sector, languageName(in.Language))

	var out struct {
		DesirabilityScore float64                   `json:"desirability_score"`
		FeasibilityScore  float64                   `json:"feasibility_score"`
		ViabilityScore    float64                   `json:"viability_score"`
		Analysis          doublediamond.DfvAnalysis `json:"analysis"`
	}
	if err := c.chatJSON(ctx, generatorSystem, prompt, &out); err != nil {
		return nil, err
	}

	return &doublediamond.DFVOutput{
		DesirabilityScore: clampScore(out.DesirabilityScore),
		FeasibilityScore:  clampScore(out.FeasibilityScore),
		ViabilityScore:    clampScore(out.ViabilityScore),
		Analysis:          out.Analysis,
	}, nil
}

// Chat answers one assistant turn. Replies are scoped to design thinking;
// the system prompt instructs the model to deflect anything else.
func (c *OpenAIClient) Chat(ctx context.Context, messages []assistant.Message, language string) (string, error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chat = append(chat, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem,
		Content: "You are a design thinking mentor inside a design thinking platform. Answer questions about design thinking methods, the Double Diamond, user research, ideation, prototyping and testing. Politely decline unrelated topics. Answer in " + languageName(language) + ".",
	})
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == assistant.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat = append(chat, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chat,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateMVP produces the full asset bundle for a project in one call.
func (c *OpenAIClient) GenerateMVP(ctx context.Context, in assistant.MVPInput) ([]assistant.Asset, error) {
	prompt := fmt.Sprintf(`Generate MVP launch assets for this product.
Name: %s
Description: %s
Sector: %s
Language: %s

Respond as JSON: {"assets": [{"kind": "logo_brief"|"landing_page"|"social_media"|"pitch", "content": "..."}]} with one asset of each kind.`,
		in.ProjectName, orUnknown(in.Description), in.Sector, languageName(in.Language))

	var out struct {
		Assets []assistant.Asset `json:"assets"`
	}
	if err := c.chatJSON(ctx, generatorSystem, prompt, &out); err != nil {
		return nil, err
	}
	return out.Assets, nil
}

// Translate produces one language's translation of a library item.
func (c *OpenAIClient) Translate(ctx context.Context, item *library.Item, targetLang string) (*library.Translation, error) {
	prompt := fmt.Sprintf(`Translate this content to %s. Keep formatting and tone.
Title: %s
Summary: %s
Body: %s

Respond as JSON: {"title": "...", "summary": "...", "body": "..."}`,
		languageName(targetLang), item.Title, item.Summary, item.Body)

	var out library.Translation
	if err := c.chatJSON(ctx, "You are a professional translator. Respond strictly as JSON.", prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return s
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return "\n- " + strings.Join(items, "\n- ")
}

// languageName maps the stored language codes to names the model follows
// more reliably than raw codes.
func languageName(code string) string {
	switch code {
	case "", "pt-BR", "pt":
		return "Brazilian Portuguese"
	case "en", "en-US":
		return "English"
	case "es":
		return "Spanish"
	default:
		return code
	}
}
