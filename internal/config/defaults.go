package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:              "info",
			DefaultProvider:       "ollama",
			MaxConcurrentMessages: 5,
		},
		Providers: map[string]ProviderConfig{
			"ollama": {
				Enabled:      true,
				APIBase:      "http://localhost:11434/v1",
				DefaultModel: "llama3.1:8b",
			},
			"openai": {
				Enabled:      false,
				APIBase:      "https://api.openai.com/v1",
				APIKey:       "${OPENAI_API_KEY:-}",
				DefaultModel: "gpt-4o-mini",
			},
		},
		Channels: ChannelsConfig{
			Telegram: TelegramConfig{
				Enabled: false,
			},
			CLI: CLIConfig{
				Enabled: true,
			},
		},
		Routing: RoutingConfig{
			Mode:                     "bestmatch",
			GenerationTimeoutSeconds: 60,
			ChunkBudget:              4000,
		},
		Store: StoreConfig{
			Enabled: true,
			DBPath:  "~/.tokbot/decisions.db",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    9091,
		},
	}
}
