package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Ai      AIConfig
	Topics  TopicsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type StorageConfig struct {
	PDFDir      string
	VideoDir    string
	TempDir     string
	MaxUploadMB int
}

type AIConfig struct {
	OllamaBaseURL  string
	LLMModel       string
	WhisperBaseURL string
	WhisperModel   string
	WhisperAPIKey  string
}

type TopicsConfig struct {
	ProcessDocument string
	GenerateAnswer  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Storage: StorageConfig{
			PDFDir:      getEnv("UPLOAD_FOLDER_PDF", "uploads/pdf"),
			VideoDir:    getEnv("UPLOAD_FOLDER_VIDEO", "uploads/video"),
			TempDir:     getEnv("UPLOAD_FOLDER_TEMP", "uploads/temp"),
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 100),
		},
		Ai: AIConfig{
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:       getEnv("LLM_MODEL", "gemma3:4b"),
			WhisperBaseURL: getEnv("WHISPER_BASE_URL", "http://localhost:8000/v1"),
			WhisperModel:   getEnv("WHISPER_MODEL", "whisper-1"),
			WhisperAPIKey:  getEnv("WHISPER_API_KEY", "local"),
		},
		Topics: TopicsConfig{
			ProcessDocument: getEnv("PROCESS_DOCUMENT_TOPIC_NAME", "PROCESS_DOCUMENT"),
			GenerateAnswer:  getEnv("GENERATE_ANSWER_TOPIC_NAME", "GENERATE_ANSWER"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
