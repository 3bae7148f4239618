package config

// GeminiConfig 是 Gemini 模型設定。
type GeminiConfig struct {
	APIKeys         []string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TimeoutSeconds  int
}

// PrimaryKey 回傳主要 API 金鑰。
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// ReviewConfig 是審查請求的限制設定。
type ReviewConfig struct {
	ContentMaxRunes int
}

// GuardConfig 是輸入檢查設定。
type GuardConfig struct {
	Enabled         bool
	Threshold       float64
	RulepacksDir    string
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig 是日誌設定。
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig 是 HTTP 伺服器設定。
type HTTPConfig struct {
	Host           string
	Port           int
	HTTP2Enabled   bool
	AllowedOrigins []string
}

// AllowAllOrigins 回傳是否允許所有跨域來源。
func (h HTTPConfig) AllowAllOrigins() bool {
	if len(h.AllowedOrigins) == 0 {
		return true
	}
	for _, origin := range h.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// HTTPAuthConfig 是對內 API 金鑰驗證設定。
type HTTPAuthConfig struct {
	APIKey string
}

// DatabaseConfig 是用量統計資料庫設定。
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	MinPool  int
	MaxPool  int
}

// Config 是應用程式整體設定。
type Config struct {
	Gemini   GeminiConfig
	Review   ReviewConfig
	Guard    GuardConfig
	Logging  LoggingConfig
	HTTP     HTTPConfig
	HTTPAuth HTTPAuthConfig
	Database DatabaseConfig
}
