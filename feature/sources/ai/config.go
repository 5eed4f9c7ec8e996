package ai

// Config holds configuration for the generative extraction source.
type Config struct {
	// APIKey seeds GEMINI_API_KEY when the settings table has no value.
	APIKey   string `mapstructure:"api_key" env:"GEMINI_API_KEY" default:""`
	Endpoint string `mapstructure:"endpoint" default:"https://generativelanguage.googleapis.com/v1beta"`
	Model    string `mapstructure:"model" default:"gemini-2.0-flash"`
	// Pages are schedule pages whose text is handed to the model.
	Pages []string `mapstructure:"pages" default:""`
	// Timezone applies to extracted times that carry no offset.
	Timezone string `mapstructure:"timezone" default:"Europe/Paris"`
	// MaxChars caps the page text sent per request.
	MaxChars int `mapstructure:"max_chars" default:"30000"`
}
