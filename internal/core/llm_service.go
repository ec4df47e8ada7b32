package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"el-escriba-api/internal/config"
)

const (
	// Persona instruction sent as the opening "user" turn of every call.
	scribeSystemInstruction = `Eres "El Escriba", un asistente de redacción académica experto en Historia de México y análisis de textos.
Tu objetivo es ayudar a estudiantes a mejorar sus redacciones, ortografía y comprensión lectora.

Tus capacidades:
- Si recibes un archivo PDF, analízalo a fondo y responde lo que pida el usuario (resumen, ideas principales, etc.).
- Si recibes solo texto, corrige gramática o mejora la coherencia según se pida.
- Mantén un tono formal, educativo y alentador.`

	// Canned acknowledgement sent as the matching "model" turn.
	scribeAcknowledgement = "Entendido. Soy El Escriba, listo para analizar textos y documentos."
)

type LLMService struct {
	client    *genai.Client
	modelName string
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client:    client,
		modelName: config.AppConfig.ChatModel,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// conversationPreamble is the fixed two-turn exchange establishing the
// persona. It is rebuilt for every call; no turn history is carried over.
func conversationPreamble() []*genai.Content {
	return []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(scribeSystemInstruction)}},
		{Role: "model", Parts: []genai.Part{genai.Text(scribeAcknowledgement)}},
	}
}

// GenerateReply sends the turn's parts to Gemini with the fixed preamble as
// history and a deterministic-leaning generation config, and returns the raw
// reply text.
func (s *LLMService) GenerateReply(ctx context.Context, parts []genai.Part) (string, error) {
	model := s.client.GenerativeModel(s.modelName)

	// Low creativity for academically consistent phrasing.
	temp := float32(0.3)
	topK := int32(1)
	topP := float32(1)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
		TopK:        &topK,
		TopP:        &topP,
	}

	chatSession := model.StartChat()
	chatSession.History = conversationPreamble()

	resp, err := chatSession.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}

	return responseText.String(), nil
}
