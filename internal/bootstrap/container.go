package bootstrap

import (
	"log"
	"os"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/extract"
	"ai-docchat-be/pkg/llm/ollama"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/transcribe"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	PageController   controller.IPageController
	UploadController controller.IUploadController
	ChatController   controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	ensureDirectories(cfg.Storage)

	// 2. Job Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Collaborators
	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	log.Printf("[INFO] Using LLM: ollama (%s)", cfg.Ai.LLMModel)

	pdfExtractor := extract.NewPDFExtractor()
	audioExtractor := extract.NewAudioExtractor()
	transcriber := transcribe.NewWhisperTranscriber(
		cfg.Ai.WhisperBaseURL,
		cfg.Ai.WhisperAPIKey,
		cfg.Ai.WhisperModel,
	)

	// NATS lifecycle events (optional; app runs without a broker)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 4. State
	sessionRepo := memory.NewSessionRepository()
	statusRepo := memory.NewStatusRepository()

	// 5. Services
	publisherService := service.NewPublisherService(
		pubSub,
		cfg.Topics.ProcessDocument,
		cfg.Topics.GenerateAnswer,
	)

	uploadService := service.NewUploadService(
		cfg.Storage,
		sessionRepo,
		statusRepo,
		publisherService,
		sysLogger,
	)

	chatService := service.NewChatService(sessionRepo, statusRepo, publisherService)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.ProcessDocument,
		cfg.Topics.GenerateAnswer,
		sessionRepo,
		statusRepo,
		pdfExtractor,
		audioExtractor,
		transcriber,
		llmProvider,
		cfg.Storage.TempDir,
		natsPub,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		PageController:   controller.NewPageController(chatService),
		UploadController: controller.NewUploadController(uploadService),
		ChatController:   controller.NewChatController(chatService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}

func ensureDirectories(storage config.StorageConfig) {
	for _, dir := range []string{storage.PDFDir, storage.VideoDir, storage.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Panicf("Unable to create upload directory %s: %v", dir, err)
		}
	}
}
