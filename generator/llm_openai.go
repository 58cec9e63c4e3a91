package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK.
type OpenAILLM struct {
	opts []option.RequestOption
}

func NewOpenAILLM(apiKey string) *OpenAILLM {
	return &OpenAILLM{opts: []option.RequestOption{option.WithAPIKey(apiKey)}}
}

func (o *OpenAILLM) Complete(ctx context.Context, model string, conv Conversation) (string, error) {
	client := openai.NewClient(o.opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv))
	for _, m := range conv {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	})
	if err != nil {
		return "", requestError("chat", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAILLM) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(model),
		Prompt: prompt,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", requestError("image", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("openai: empty image data")
	}
	return resp.Data[0].URL, nil
}

func requestError(stage string, err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &RequestError{Stage: stage, StatusCode: apierr.StatusCode, Err: err}
	}
	return &RequestError{Stage: stage, Err: err}
}
