package dto

import "ai-docchat-be/pkg/store"

type UploadResponse struct {
	Message string `json:"message"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

type AskResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status       string `json:"status"`
	IsProcessing bool   `json:"is_processing"`
}

type MessagesResponse struct {
	Messages []store.Message `json:"messages"`
}

type TimestampContextResponse struct {
	Timestamp string `json:"timestamp"`
	Context   string `json:"context"`
}

// ProcessDocumentMessage is the background job payload for a fresh upload.
type ProcessDocumentMessage struct {
	SessionId string `json:"session_id"`
	FilePath  string `json:"file_path"`
	Kind      string `json:"kind"` // constant.DocumentKindPDF | constant.DocumentKindVideo
}

// GenerateAnswerMessage is the background job payload for a question.
type GenerateAnswerMessage struct {
	SessionId string `json:"session_id"`
	Question  string `json:"question"`
}
