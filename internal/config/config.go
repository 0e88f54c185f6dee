package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string

	// LLM Configuration
	LLMProvider string // "groq", "openai", or "none"
	LLMModel    string
	LLMAPIKey   string

	// Optional batch-status notifications
	RabbitMQURL string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	llmProvider := os.Getenv("LLM_PROVIDER")
	if llmProvider == "" {
		llmProvider = "groq" // default
	}

	llmModel := os.Getenv("LLM_MODEL")
	if llmModel == "" {
		llmModel = "openai/gpt-oss-20b" // default model
	}

	// Get API key based on provider. A missing key is not fatal: scoring
	// degrades to zero-score results instead.
	llmAPIKey := ""
	if llmProvider == "groq" {
		llmAPIKey = os.Getenv("GROQ_API_KEY")
	} else if llmProvider == "openai" {
		llmAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        port,
		LLMProvider: llmProvider,
		LLMModel:    llmModel,
		LLMAPIKey:   llmAPIKey,
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	}
}
