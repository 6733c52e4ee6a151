package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/opstack-labs/platform-sim/internal/models"
)

const maxRecommendations = 3

// OpenAIDiagnoser asks a chat-completion backend for a root cause and
// remediation steps. Every call carries a bounded timeout; callers treat any
// error as a signal to degrade to the deterministic path.
type OpenAIDiagnoser struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIDiagnoser constructs a backend-assisted diagnoser.
func NewOpenAIDiagnoser(apiKey, model string, timeout time.Duration) *OpenAIDiagnoser {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAIDiagnoser{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Diagnose prompts the backend with the alert, pod detail, and log counts.
// The trimmed completion text becomes the summary verbatim.
func (d *OpenAIDiagnoser) Diagnose(ctx context.Context, in DiagnosisInput) (models.RootCause, error) {
	prompt := fmt.Sprintf(
		"You are a site reliability engineer. Analyze the alert and logs to find root cause.\n"+
			"Alert: id=%s type=%s severity=%s resource=%s message=%q\n"+
			"Pod details: status=%s cpu=%.1f%% memory=%.1f%% restarts=%d\n"+
			"Log summary: errors=%d warnings=%d\n"+
			"Provide a concise root cause summary and evidence list.",
		in.Alert.ID, in.Alert.Type, in.Alert.Severity, in.Alert.Resource, in.Alert.Message,
		in.PodDetails.Status, in.PodDetails.CPUUsage, in.PodDetails.MemoryUsage, in.PodDetails.RestartCount,
		in.Logs.ErrorCount, in.Logs.WarningCount,
	)

	content, err := d.complete(ctx, prompt)
	if err != nil {
		return models.RootCause{}, err
	}
	return models.RootCause{
		Summary:  strings.TrimSpace(content),
		Evidence: []string{"AI analysis based on alert and logs"},
	}, nil
}

// Recommend prompts for remediation steps and returns at most three.
func (d *OpenAIDiagnoser) Recommend(ctx context.Context, rootCause string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Provide 3 remediation steps for this incident.\nRoot cause: %s\nReturn a bullet list.",
		rootCause,
	)

	content, err := d.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSteps(content, maxRecommendations), nil
}

func (d *OpenAIDiagnoser) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseSteps splits free text into up to limit non-empty lines with leading
// bullet markers stripped.
func parseSteps(content string, limit int) []string {
	steps := make([]string, 0, limit)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		if line == "" {
			continue
		}
		steps = append(steps, line)
		if len(steps) == limit {
			break
		}
	}
	return steps
}
