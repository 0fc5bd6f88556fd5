package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/transcribe"
)

// Shared in-memory fakes for the collaborator contracts.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type recordingPublisher struct {
	mu           sync.Mutex
	documentJobs []dto.ProcessDocumentMessage
	answerJobs   []dto.GenerateAnswerMessage
	failNext     bool
}

func (p *recordingPublisher) PublishProcessDocument(msg *dto.ProcessDocumentMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext {
		return errors.New("bus down")
	}
	p.documentJobs = append(p.documentJobs, *msg)
	return nil
}

func (p *recordingPublisher) PublishGenerateAnswer(msg *dto.GenerateAnswerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext {
		return errors.New("bus down")
	}
	p.answerJobs = append(p.answerJobs, *msg)
	return nil
}

type fakeTextExtractor struct {
	text string
	err  error
}

func (f *fakeTextExtractor) ExtractText(path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeAudioExtractor writes a real temp file so cleanup is observable.
type fakeAudioExtractor struct {
	err error
}

func (f *fakeAudioExtractor) Extract(_ context.Context, videoPath, tempDir string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(tempDir, base+".wav")
	if err := os.WriteFile(audioPath, []byte("riff"), 0o644); err != nil {
		return "", err
	}
	return audioPath, nil
}

type fakeTranscriber struct {
	result *transcribe.Result
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (*transcribe.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeLLM struct {
	answer string
	err    error
}

var _ llm.LLMProvider = &fakeLLM{}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
