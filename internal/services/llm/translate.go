package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TranslationPrompt instructs the model to return a single dubbing line.
const TranslationPrompt = `You translate spoken dialogue for dubbing.
Translate the user's line into the requested target language.
Keep the meaning and register, and keep it about as long as the original so it
can be spoken in the same time. Do not add notes or quotation marks.
Respond with JSON only: {"translation": "<translated line>"}`

type translationPayload struct {
	Translation string `json:"translation"`
}

// Translate returns text rendered in targetLang.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	text = strings.TrimSpace(text)
	targetLang = strings.TrimSpace(targetLang)
	if text == "" {
		return "", errors.New("llm translate: text required")
	}
	if targetLang == "" {
		return "", errors.New("llm translate: target language required")
	}
	var reply translationPayload
	user := fmt.Sprintf("Target language: %s\nLine: %s", targetLang, text)
	if err := c.ask(ctx, "llm translate", TranslationPrompt, user, &reply); err != nil {
		return "", err
	}
	translated := strings.TrimSpace(reply.Translation)
	if translated == "" {
		return "", fmt.Errorf("llm translate: empty translation (model returned %q)", reply.Translation)
	}
	return translated, nil
}
