package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Model names a Gemini model.
type Model string

const (
	ModelFlash Model = "gemini-2.5-flash"
	ModelPro   Model = "gemini-3-pro-preview"
)

// DefaultTemperature keeps replies varied without drifting off persona.
const DefaultTemperature = 0.7

// SystemInstruction is the persona sent with every prompt.
const SystemInstruction = `You are the Central Operating System of XOCIETY, a futuristic dystopian metaverse.
Your tone is robotic, precise, slightly ominous, yet helpful to the "Player" or "Citizen".
Keep responses concise (under 50 words) and formatted like a terminal output.
Use terms like "Affirmative", "Processing", "Access Denied", "Frontier Avatar".`

// Config holds Gemini client configuration.
type Config struct {
	APIKey      string
	Model       Model
	Temperature float32

	// BaseURL overrides the API endpoint. Empty uses the public API.
	BaseURL string
}

// Gemini generates replies through the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       Model
	temperature float32
}

// NewGemini creates a Gemini generator. An API key is required.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = ModelFlash
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends prompt with the persona instruction and returns the
// reply text, which may be empty.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx,
		string(g.model),
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// Name returns the generator name.
func (g *Gemini) Name() string {
	return fmt.Sprintf("genai:%s", g.model)
}
