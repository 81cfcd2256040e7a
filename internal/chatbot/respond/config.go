// internal/chatbot/respond/config.go
package respond

type Config struct {
	MatchThreshold float64
	MaxSuggestions int
}

func LoadConfig() *Config {
	return &Config{
		MatchThreshold: 2,
		MaxSuggestions: 3,
	}
}
