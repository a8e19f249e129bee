// Package domain contains the wire types of the document translator.
package domain

import "github.com/pricofy/document-translator/internal/document"

// Severity of an item message.
const (
	SeverityStatus  = "status"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Request is the input to the document translator Lambda.
type Request struct {
	SourceLang string        `json:"sourceLang"`
	TargetLang string        `json:"targetLang"`
	Items      []ItemRequest `json:"items"`
}

// ItemRequest is one document of a job.
type ItemRequest struct {
	ID   string             `json:"id,omitempty"`
	Data *document.Internal `json:"data"`
}

// Response is the output of the document translator Lambda.
type Response struct {
	Items     []ItemResponse `json:"items,omitempty"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Error     string         `json:"error,omitempty"`
}

// ItemResponse is the result for one document. Data is absent when the item failed.
type ItemResponse struct {
	ID       string             `json:"id"`
	Status   string             `json:"status"`
	Data     *document.Internal `json:"data,omitempty"`
	Batches  int                `json:"batches,omitempty"`
	Messages []Message          `json:"messages,omitempty"`
}

// Message is a human-readable note attached to an item.
type Message struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

// TranslatorRequest is the request format for translator Lambdas.
type TranslatorRequest struct {
	Texts      []string `json:"texts"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

// TranslatorResponse is the response format from translator Lambdas.
type TranslatorResponse struct {
	Translations []string `json:"translations"`
	Error        string   `json:"error,omitempty"`
}
