package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Morwran/yagpt"
)

// YandexClient talks to YandexGPT. The session credential is an OAuth
// token, exchanged for an IAM token on the first call.
type YandexClient struct {
	ya         yagpt.YaGPTFace
	oauthToken string

	mu       sync.Mutex
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	if folderID == "" {
		return nil, errors.New("YANDEX_FOLDER_ID is required for the yandex provider")
	}
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}
	return &YandexClient{ya: ya, oauthToken: oauthToken}, nil
}

func (c *YandexClient) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.iamToken != "" {
		return c.iamToken, nil
	}
	iam, err := yagpt.NewYaIam(c.oauthToken)
	if err != nil {
		return "", fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.Create()
	if err != nil {
		return "", fmt.Errorf("failed to create iam token: %w", err)
	}
	c.iamToken = resp.IamToken
	return c.iamToken, nil
}

// Generate ignores MaxTokens and sampling values: the library fixes the
// completion options.
func (c *YandexClient) Generate(ctx context.Context, r Request) (Response, error) {
	iamToken, err := c.token()
	if err != nil {
		return Response{}, err
	}
	resp, err := c.ya.CompletionWithCtx(ctx, iamToken, toYaMessages(r.Messages))
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, errors.New("yagpt returned empty response")
	}
	return Response{
		Content:          resp.Alternatives[0].Message.Content,
		Model:            yagpt.YaModelLite,
		PromptTokens:     int(resp.Usage.InputTextTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}

func toYaMessages(msgs []Message) []yagpt.Message {
	out := make([]yagpt.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		out = append(out, yagpt.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
