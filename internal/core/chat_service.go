package core

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
)

var (
	// ErrEmptyTurn means neither a message nor an attachment was supplied.
	// Such a turn is never dispatched to the backend.
	ErrEmptyTurn = errors.New("a message or an attachment is required")

	// ErrGenerationFailed is the single condition every backend failure
	// (timeout, quota, unreadable or oversized document) collapses into.
	// The detail is logged; callers present a stable generic message.
	ErrGenerationFailed = errors.New("failed to generate a reply")
)

// Instruction appended when a document arrives with no accompanying message.
const defaultDocumentPrompt = "Analiza este documento y genera un resumen con las ideas principales."

// TurnRequest is one user submission: free text, an attached document, or both.
type TurnRequest struct {
	Message string
	File    *Attachment
}

// ReplyGenerator is the contract of the generative backend adapter.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, parts []genai.Part) (string, error)
}

type ChatService struct {
	llm ReplyGenerator
}

func NewChatService(llm ReplyGenerator) *ChatService {
	return &ChatService{llm: llm}
}

// BuildParts assembles the ordered content parts for a turn: the document
// blob first, then the default instruction when the document arrives alone,
// then the user's message verbatim.
func BuildParts(req TurnRequest) ([]genai.Part, error) {
	if req.Message == "" && req.File == nil {
		return nil, ErrEmptyTurn
	}

	var parts []genai.Part
	if req.File != nil {
		if req.File.MimeType != PDFMimeType {
			return nil, ErrUnsupportedFileType
		}
		data, err := req.File.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment %q: %w", req.File.Name, err)
		}
		parts = append(parts, genai.Blob{MIMEType: req.File.MimeType, Data: data})
		if req.Message == "" {
			parts = append(parts, genai.Text(defaultDocumentPrompt))
		}
	}

	if req.Message != "" {
		parts = append(parts, genai.Text(req.Message))
	}
	return parts, nil
}

// GenerateTurn validates the turn, builds its parts, and submits them with
// the fixed preamble. No retry on failure: a failed turn is terminal and the
// user resubmits.
func (s *ChatService) GenerateTurn(ctx context.Context, req TurnRequest) (string, error) {
	parts, err := BuildParts(req)
	if err != nil {
		if errors.Is(err, ErrEmptyTurn) || errors.Is(err, ErrUnsupportedFileType) {
			return "", err
		}
		log.Printf("Failed to build turn parts: %v", err)
		return "", ErrGenerationFailed
	}

	reply, err := s.llm.GenerateReply(ctx, parts)
	if err != nil {
		log.Printf("Backend call failed: %v", err)
		return "", ErrGenerationFailed
	}
	return reply, nil
}
