package config

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	TopK        int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// StorageConfig represents the configuration for the interaction store
type StorageConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// SMTPConfig represents the configuration for simulated email delivery
type SMTPConfig struct {
	Enabled  bool
	Address  string
	From     string
	Username string
	Password string
	StartTLS bool
}

// RiskConfig represents the configuration for the risk model artifacts
type RiskConfig struct {
	ClassifierPath string
	ScalerPath     string
}

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress string
	Organization  string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		TopK:        c.GetInt("gemini.top_k"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:       c.GetString("storage.type"),
		SQLitePath: c.GetString("storage.sqlite_path"),
		MySQLDSN:   c.GetString("storage.mysql_dsn"),
	}
}

// GetSMTP returns the delivery configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:  c.GetBool("smtp.enabled"),
		Address:  c.GetString("smtp.address"),
		From:     c.GetString("smtp.from"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		StartTLS: c.GetBool("smtp.starttls"),
	}
}

// GetRisk returns the risk model configuration
func (c *Config) GetRisk() RiskConfig {
	return RiskConfig{
		ClassifierPath: c.GetString("risk.classifier_path"),
		ScalerPath:     c.GetString("risk.scaler_path"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		Organization:  c.GetString("server.organization"),
	}
}
