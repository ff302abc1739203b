package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration, read from the environment.
type Config struct {
	Environment string
	Port        string
	SentryDSN   string

	// Output directory for exported MIDI files
	ExportDir string

	// Audio backend: "synth" (oto), "midi" (output port) or "none"
	AudioBackend string
	MidiOutPort  string
	MidiInPort   string
	SampleRate   int
	TempoBPM     float64

	// Optional DynamoDB template library
	TemplatesTable   string
	DynamoDBEndpoint string
	DynamoDBRegion   string

	// Requests per second allowed on mutating HTTP routes
	RateLimit float64
}

func Load() *Config {
	return &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "8080"),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		ExportDir:        getEnv("EXPORT_DIR", "."),
		AudioBackend:     getEnv("AUDIO_BACKEND", "synth"),
		MidiOutPort:      getEnv("MIDI_OUT_PORT", ""),
		MidiInPort:       getEnv("MIDI_IN_PORT", ""),
		SampleRate:       getEnvInt("SAMPLE_RATE", 44100),
		TempoBPM:         getEnvFloat("TEMPO_BPM", 120),
		TemplatesTable:   getEnv("TEMPLATES_TABLE", ""),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		DynamoDBRegion:   getEnv("DYNAMODB_REGION", "us-east-1"),
		RateLimit:        getEnvFloat("RATE_LIMIT", 5),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
