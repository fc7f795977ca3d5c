// Package gemini turns free-form text into robot commands using Google's
// Gemini generateContent API.
//
// The model is instructed to answer with a single JSON object holding one
// command from the robot's closed vocabulary plus a short spoken reply.
// Anything the model says outside that contract is rejected here rather
// than passed to the motors.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ninjabotics/ninja/internal/httpc"
	"github.com/ninjabotics/ninja/internal/log"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

// ErrNoAPIKey means the client was constructed without a key.
var ErrNoAPIKey = errors.New("gemini: no API key")

// APIError is a non-200 answer from the Gemini API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: API error %d: %s", e.StatusCode, e.Message)
}

const systemInstruction = `You control a small two-legged robot with wheel feet.
Translate the user's request into exactly one command from this list:
walk, stepback, run, runback, rotateleft, rotateright, turnleft, turnright,
hello, rest, stand, stop, distance.
Commands that move accept an optional speed: slow, normal or fast.
Answer ONLY with a JSON object of the form
{"command": "<command>", "speed": "<speed or empty>", "say": "<short reply>"}.
If the request does not map to any command, use "stop" and explain in "say".`

// Interpretation is the model's answer: one command from the closed
// vocabulary, an optional speed tier, and a line to show the operator.
type Interpretation struct {
	Command string `json:"command"`
	Speed   string `json:"speed"`
	Say     string `json:"say"`
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// New creates a Gemini client. The key is required; an empty model falls
// back to DefaultModel.
func New(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		http:    httpc.Client,
	}, nil
}

// Interpret asks the model to map text onto the command vocabulary.
func (c *Client) Interpret(ctx context.Context, text string) (*Interpretation, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": text},
				},
			},
		},
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": systemInstruction},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.2,
			"maxOutputTokens":  200,
			"responseMimeType": "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}

	raw := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	interp, err := parseInterpretation(raw)
	if err != nil {
		return nil, err
	}
	log.Debug("gemini: interpreted", "command", interp.Command, "latency_ms", time.Since(start).Milliseconds())
	return interp, nil
}

// parseInterpretation decodes the model's JSON answer, tolerating the
// markdown fences some models wrap it in.
func parseInterpretation(raw string) (*Interpretation, error) {
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")

	var interp Interpretation
	if err := json.Unmarshal([]byte(raw), &interp); err != nil {
		return nil, fmt.Errorf("gemini: model answer is not valid JSON: %w", err)
	}
	interp.Command = strings.ToLower(strings.TrimSpace(interp.Command))
	interp.Speed = strings.ToLower(strings.TrimSpace(interp.Speed))
	if interp.Command == "" {
		return nil, fmt.Errorf("gemini: model answer has no command")
	}
	return &interp, nil
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// generateResponse is the subset of the API answer we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
