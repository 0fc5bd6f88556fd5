package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type IUploadService interface {
	Upload(sessionId string, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type uploadService struct {
	storage     config.StorageConfig
	sessionRepo *memory.SessionRepository
	statusRepo  *memory.StatusRepository
	publisher   IPublisherService
	log         logger.ILogger
}

func NewUploadService(
	storage config.StorageConfig,
	sessionRepo *memory.SessionRepository,
	statusRepo *memory.StatusRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		storage:     storage,
		sessionRepo: sessionRepo,
		statusRepo:  statusRepo,
		publisher:   publisher,
		log:         log,
	}
}

// Upload validates and persists the file, claims the session and hands
// the slow extraction to a background job. Returns before any
// extraction happens.
func (s *uploadService) Upload(sessionId string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file == nil || file.Filename == "" {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "No file selected")
	}

	if _, found := s.sessionRepo.Get(sessionId); !found {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Session expired")
	}

	filename := utils.SanitizeFilename(file.Filename)
	ext := utils.FileExtension(filename)

	var kind, dir string
	switch {
	case ext == "pdf":
		kind, dir = constant.DocumentKindPDF, s.storage.PDFDir
	case constant.VideoExtensions[ext]:
		kind, dir = constant.DocumentKindVideo, s.storage.VideoDir
	default:
		// Rejected before the session is claimed: an unsupported upload
		// must never flip the processing flag.
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Unsupported file type")
	}

	if !s.sessionRepo.BeginProcessing(sessionId) {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "System is still processing your file")
	}

	filePath := filepath.Join(dir, filename)
	if err := saveMultipartFile(file, filePath); err != nil {
		s.sessionRepo.EndProcessing(sessionId)
		return nil, fmt.Errorf("save upload: %w", err)
	}

	s.statusRepo.Set(sessionId, constant.StatusProcessingFile)

	err := s.publisher.PublishProcessDocument(&dto.ProcessDocumentMessage{
		SessionId: sessionId,
		FilePath:  filePath,
		Kind:      kind,
	})
	if err != nil {
		s.sessionRepo.EndProcessing(sessionId)
		return nil, fmt.Errorf("publish document job: %w", err)
	}

	s.log.Info("upload", "File accepted for processing", map[string]interface{}{
		"session_id": sessionId,
		"file":       filename,
		"kind":       kind,
	})

	return &dto.UploadResponse{Message: "File uploaded successfully. Processing..."}, nil
}

func saveMultipartFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
