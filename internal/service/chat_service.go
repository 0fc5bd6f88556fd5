package service

import (
	"fmt"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/transcribe"

	"github.com/gofiber/fiber/v2"
)

type IChatService interface {
	OpenSession(sessionId string)
	Ask(sessionId string, request *dto.AskRequest) (*dto.AskResponse, error)
	Status(sessionId string) (*dto.StatusResponse, error)
	Messages(sessionId string) (*dto.MessagesResponse, error)
	TimestampContext(sessionId string, targetSeconds, windowSeconds float64) (*dto.TimestampContextResponse, error)
}

type chatService struct {
	sessionRepo *memory.SessionRepository
	statusRepo  *memory.StatusRepository
	publisher   IPublisherService
}

func NewChatService(
	sessionRepo *memory.SessionRepository,
	statusRepo *memory.StatusRepository,
	publisher IPublisherService,
) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		statusRepo:  statusRepo,
		publisher:   publisher,
	}
}

// OpenSession creates the session state for a first visit; later visits
// are no-ops.
func (s *chatService) OpenSession(sessionId string) {
	s.sessionRepo.GetOrCreate(sessionId)
}

// Ask runs the precondition chain in a fixed order (unknown session,
// busy, empty question, no document), then appends the user message and
// hands answer generation to a background job.
func (s *chatService) Ask(sessionId string, request *dto.AskRequest) (*dto.AskResponse, error) {
	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Session expired")
	}

	if session.IsProcessing {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "System is still processing your file")
	}

	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "No question provided")
	}

	if session.ExtractedText == "" {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "No document content available. Please upload a file first.")
	}

	// Claim the session before touching the transcript so a racing
	// request cannot double-append.
	if !s.sessionRepo.BeginProcessing(sessionId) {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "System is still processing your file")
	}

	s.sessionRepo.AppendMessage(sessionId, constant.ChatMessageRoleUser, request.Question)
	s.statusRepo.Set(sessionId, constant.StatusGeneratingAnswer)

	err := s.publisher.PublishGenerateAnswer(&dto.GenerateAnswerMessage{
		SessionId: sessionId,
		Question:  request.Question,
	})
	if err != nil {
		s.sessionRepo.EndProcessing(sessionId)
		return nil, fmt.Errorf("publish answer job: %w", err)
	}

	return &dto.AskResponse{Message: "Question received. Processing..."}, nil
}

func (s *chatService) Status(sessionId string) (*dto.StatusResponse, error) {
	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Session expired")
	}
	return &dto.StatusResponse{
		Status:       s.statusRepo.Get(sessionId),
		IsProcessing: session.IsProcessing,
	}, nil
}

func (s *chatService) Messages(sessionId string) (*dto.MessagesResponse, error) {
	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Session expired")
	}
	return &dto.MessagesResponse{Messages: session.Messages}, nil
}

// TimestampContext returns the transcript lines around a point in time
// of the last transcribed video.
func (s *chatService) TimestampContext(sessionId string, targetSeconds, windowSeconds float64) (*dto.TimestampContextResponse, error) {
	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Session expired")
	}
	if windowSeconds <= 0 {
		windowSeconds = transcribe.DefaultContextWindow
	}
	return &dto.TimestampContextResponse{
		Timestamp: transcribe.FormatTimestamp(targetSeconds),
		Context:   transcribe.FindTextAroundTimestamp(session.Segments, targetSeconds, windowSeconds),
	}, nil
}
