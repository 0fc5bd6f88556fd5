package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/transcribe"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Collaborator contracts, satisfied by pkg/extract and pkg/transcribe.
// Kept narrow so tests can substitute fakes.

type TextExtractor interface {
	ExtractText(path string) (string, error)
}

type AudioExtractor interface {
	Extract(ctx context.Context, videoPath, tempDir string) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error)
}

// IConsumerService executes the background jobs published by the upload
// and chat services. One subscriber per topic; jobs run to completion,
// are never retried, and report failures only through the status
// channel (and, for answers, the transcript).
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	documentTopic string
	answerTopic   string

	sessionRepo *memory.SessionRepository
	statusRepo  *memory.StatusRepository

	pdfExtractor   TextExtractor
	audioExtractor AudioExtractor
	transcriber    Transcriber
	llmProvider    llm.LLMProvider

	tempDir  string
	eventPub *nats.Publisher
	log      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	documentTopic, answerTopic string,
	sessionRepo *memory.SessionRepository,
	statusRepo *memory.StatusRepository,
	pdfExtractor TextExtractor,
	audioExtractor AudioExtractor,
	transcriber Transcriber,
	llmProvider llm.LLMProvider,
	tempDir string,
	eventPub *nats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		documentTopic:  documentTopic,
		answerTopic:    answerTopic,
		sessionRepo:    sessionRepo,
		statusRepo:     statusRepo,
		pdfExtractor:   pdfExtractor,
		audioExtractor: audioExtractor,
		transcriber:    transcriber,
		llmProvider:    llmProvider,
		tempDir:        tempDir,
		eventPub:       eventPub,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	documentMessages, err := cs.pubSub.Subscribe(ctx, cs.documentTopic)
	if err != nil {
		return err
	}
	answerMessages, err := cs.pubSub.Subscribe(ctx, cs.answerTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range documentMessages {
			cs.processDocument(ctx, msg)
		}
	}()
	go func() {
		for msg := range answerMessages {
			cs.generateAnswer(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processDocument(ctx context.Context, msg *message.Message) {
	// Jobs are attempted exactly once: failures become status text, so
	// every message is Acked regardless of outcome.
	defer msg.Ack()

	var payload dto.ProcessDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal document job", map[string]interface{}{"error": err.Error()})
		return
	}

	// The processing flag must release on every exit path.
	defer cs.sessionRepo.EndProcessing(payload.SessionId)

	var jobErr error
	switch payload.Kind {
	case constant.DocumentKindPDF:
		jobErr = cs.processPDF(payload)
	case constant.DocumentKindVideo:
		jobErr = cs.processVideo(ctx, payload)
	default:
		jobErr = fmt.Errorf("unknown document kind %q", payload.Kind)
		cs.statusRepo.Set(payload.SessionId, fmt.Sprintf("Error processing file: %v", jobErr))
	}

	if jobErr != nil {
		cs.log.Error("consumer", "Document job failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"kind":       payload.Kind,
			"error":      jobErr.Error(),
		})
	} else {
		cs.log.Info("consumer", "Document job finished", map[string]interface{}{
			"session_id": payload.SessionId,
			"kind":       payload.Kind,
		})
	}

	if err := cs.eventPub.Publish(ctx, events.NewFileProcessed(payload.SessionId, payload.Kind, jobErr)); err != nil {
		cs.log.Warn("consumer", "Failed to publish lifecycle event", map[string]interface{}{"error": err.Error()})
	}
}

func (cs *consumerService) processPDF(payload dto.ProcessDocumentMessage) error {
	text, err := cs.pdfExtractor.ExtractText(payload.FilePath)
	if err != nil {
		cs.statusRepo.Set(payload.SessionId, fmt.Sprintf(constant.StatusErrorProcessingPDFFmt, err))
		return err
	}

	cs.sessionRepo.SetExtracted(payload.SessionId, text, nil)
	cs.statusRepo.Set(payload.SessionId, constant.StatusFileProcessed)
	return nil
}

func (cs *consumerService) processVideo(ctx context.Context, payload dto.ProcessDocumentMessage) error {
	audioPath, err := cs.audioExtractor.Extract(ctx, payload.FilePath, cs.tempDir)
	if err != nil {
		cs.statusRepo.Set(payload.SessionId, fmt.Sprintf(constant.StatusErrorProcessingVideoFmt, err))
		return err
	}
	// Removed whether or not transcription succeeds.
	defer os.Remove(audioPath)

	result, err := cs.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		cs.statusRepo.Set(payload.SessionId, fmt.Sprintf(constant.StatusErrorProcessingVideoFmt, err))
		return err
	}

	cs.sessionRepo.SetExtracted(payload.SessionId, result.Text, result.Segments)
	cs.statusRepo.Set(payload.SessionId, constant.StatusFileProcessed)
	return nil
}

func (cs *consumerService) generateAnswer(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.GenerateAnswerMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal answer job", map[string]interface{}{"error": err.Error()})
		return
	}

	defer cs.sessionRepo.EndProcessing(payload.SessionId)

	var jobErr error
	session, found := cs.sessionRepo.Get(payload.SessionId)
	if !found {
		jobErr = fmt.Errorf("session %s vanished", payload.SessionId)
		cs.statusRepo.Set(payload.SessionId, fmt.Sprintf(constant.StatusErrorGeneratingFmt, jobErr))
	} else {
		prompt := fmt.Sprintf(constant.AnswerPromptFmt, session.ExtractedText, payload.Question)

		var answer string
		answer, jobErr = cs.llmProvider.Generate(ctx, prompt)
		if jobErr != nil {
			// Surfaced in the transcript itself, not just the status
			// channel, so the user sees it without inspecting status.
			cs.sessionRepo.AppendMessage(payload.SessionId, constant.ChatMessageRoleAssistant,
				fmt.Sprintf(constant.AnswerErrorChatFmt, jobErr))
			cs.statusRepo.Set(payload.SessionId, fmt.Sprintf(constant.StatusErrorGeneratingFmt, jobErr))
		} else {
			cs.sessionRepo.AppendMessage(payload.SessionId, constant.ChatMessageRoleAssistant, answer)
			cs.statusRepo.Set(payload.SessionId, constant.StatusAnswerGenerated)
		}
	}

	if jobErr != nil {
		cs.log.Error("consumer", "Answer job failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      jobErr.Error(),
		})
	}

	if err := cs.eventPub.Publish(ctx, events.NewAnswerGenerated(payload.SessionId, jobErr)); err != nil {
		cs.log.Warn("consumer", "Failed to publish lifecycle event", map[string]interface{}{"error": err.Error()})
	}
}
