package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// fallbackSuggestion is returned when the model produces no usable text.
const fallbackSuggestion = "Sorry, I couldn't generate a recipe suggestion. Please try again with different ingredients."

// DefaultLanguage is the prompt language used for unrecognized tags.
const DefaultLanguage = "en"

// prompts holds the fixed set of language-specific suggestion prompts,
// keyed by language tag. The placeholder receives the ingredient list.
var prompts = map[string]string{
	"en": `You are a helpful cooking assistant. Create a delicious recipe using these ingredients: %s

Please format your response exactly like this:

**Menu Name:** [Create a creative dish name]

**Ingredients:**
- [List all ingredients with quantities]

**Instructions:**
1. [Step 1]
2. [Step 2]
3. [Continue with numbered steps]

**Cooking Time:** [Prep time and cooking time]

Make this recipe realistic and delicious. If some basic ingredients are missing (like oil, salt, pepper), you can add them as needed.`,

	"th": `คุณคือผู้ช่วยทำอาหารที่เป็นประโยชน์ สร้างสูตรอาหารอร่อยโดยใช้ส่วนผสมเหล่านี้: %s

โปรดให้คำตอบของคุณในรูปแบบนี้เป๊ะ ๆ:

**ชื่อเมนู:** [ตั้งชื่อเมนูอย่างสร้างสรรค์]

**ส่วนผสม:**
- [รายการส่วนผสมทั้งหมดพร้อมปริมาณ]

**วิธีทำ:**
1. [ขั้นตอนที่ 1]
2. [ขั้นตอนที่ 2]
3. [ต่อด้วยขั้นตอนแบบมีหมายเลข]

**เวลาในการทำอาหาร:** [เวลาเตรียมและเวลาในการปรุง]

ทำให้สูตรนี้เป็นไปได้จริงและอร่อย หากส่วนผสมพื้นฐานบางอย่างหายไป (เช่น น้ำมัน เกลือ พริกไทย) สามารถใส่เพิ่มเติมได้`,
}

// Client is a client for the Gemini API.
type Client struct {
	model *genai.GenerativeModel
}

// NewClient creates a new Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1000)
	return &Client{model: model}, nil
}

// buildPrompt returns the prompt for the given language tag with the
// ingredient list filled in. Unrecognized tags fall back to English.
func buildPrompt(ingredients, language string) string {
	p, ok := prompts[language]
	if !ok {
		p = prompts[DefaultLanguage]
	}
	return fmt.Sprintf(p, strings.TrimSpace(ingredients))
}

// SuggestRecipe asks the model for a recipe using the given free-text
// ingredients and returns the suggestion text of the first candidate.
func (c *Client) SuggestRecipe(ctx context.Context, ingredients, language string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(ingredients, language)))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return extractSuggestion(resp), nil
}

// extractSuggestion joins the text parts of the first candidate. An empty
// or non-text response yields the apology fallback, not an error.
func extractSuggestion(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fallbackSuggestion
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok && text != "" {
			parts = append(parts, string(text))
		}
	}

	suggestion := strings.TrimSpace(strings.Join(parts, "\n"))
	if suggestion == "" {
		return fallbackSuggestion
	}
	return suggestion
}
