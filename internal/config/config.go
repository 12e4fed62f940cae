package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Crawler   CrawlerConfig   `yaml:"crawler" mapstructure:"crawler"`
	Processor ProcessorConfig `yaml:"processor" mapstructure:"processor"`
	Retrieval RankConfig      `yaml:"retrieval" mapstructure:"retrieval"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Stats     StatsConfig     `yaml:"stats" mapstructure:"stats"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" mapstructure:"snapshot"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CrawlerConfig configures the wiki crawler.
type CrawlerConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	DelayMs     int    `yaml:"delay_ms" mapstructure:"delay_ms"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPages    int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// ProcessorConfig configures normalization and classification. RulesFile and
// VocabularyFile point at optional YAML overrides for the built-in bucket
// rule table and key-term vocabulary.
type ProcessorConfig struct {
	RulesFile      string `yaml:"rules_file" mapstructure:"rules_file"`
	VocabularyFile string `yaml:"vocabulary_file" mapstructure:"vocabulary_file"`
	Concurrency    int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// RankConfig holds the question-context ranking weights and bounds. The
// values are heuristic tuning knobs, not derived from any documented model;
// they are named here so operators can adjust them without touching scoring
// code.
type RankConfig struct {
	TitleWeight       int `yaml:"title_weight" mapstructure:"title_weight"`
	KeyTermWeight     int `yaml:"key_term_weight" mapstructure:"key_term_weight"`
	ContentWordWeight int `yaml:"content_word_weight" mapstructure:"content_word_weight"`
	CategoryWeight    int `yaml:"category_weight" mapstructure:"category_weight"`
	PhraseBonus       int `yaml:"phrase_bonus" mapstructure:"phrase_bonus"`
	TopEntries        int `yaml:"top_entries" mapstructure:"top_entries"`
	SnippetLen        int `yaml:"snippet_len" mapstructure:"snippet_len"`
	ContextLimit      int `yaml:"context_limit" mapstructure:"context_limit"`
}

// SearchConfig holds the free-text search weights.
type SearchConfig struct {
	TitleWeight    int `yaml:"title_weight" mapstructure:"title_weight"`
	ContentWeight  int `yaml:"content_weight" mapstructure:"content_weight"`
	KeyTermWeight  int `yaml:"key_term_weight" mapstructure:"key_term_weight"`
	CategoryWeight int `yaml:"category_weight" mapstructure:"category_weight"`
}

// StatsConfig configures statistics reporting.
type StatsConfig struct {
	TopTerms int `yaml:"top_terms" mapstructure:"top_terms"`
}

// SnapshotConfig configures corpus snapshot files.
type SnapshotConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the database backend. MaxConns and MinConns apply to
// the postgres driver only.
type StoreConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	MaxConns int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnthropicConfig holds Anthropic API settings for answer generation.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCHOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("crawler.base_url", "https://wh40k.lexicanum.com")
	v.SetDefault("crawler.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("crawler.delay_ms", 1000)
	v.SetDefault("crawler.timeout_secs", 10)
	v.SetDefault("crawler.max_pages", 50)
	v.SetDefault("processor.concurrency", 4)
	v.SetDefault("retrieval.title_weight", 20)
	v.SetDefault("retrieval.key_term_weight", 15)
	v.SetDefault("retrieval.content_word_weight", 2)
	v.SetDefault("retrieval.category_weight", 10)
	v.SetDefault("retrieval.phrase_bonus", 25)
	v.SetDefault("retrieval.top_entries", 3)
	v.SetDefault("retrieval.snippet_len", 1000)
	v.SetDefault("retrieval.context_limit", 3000)
	v.SetDefault("search.title_weight", 10)
	v.SetDefault("search.content_weight", 5)
	v.SetDefault("search.key_term_weight", 3)
	v.SetDefault("search.category_weight", 2)
	v.SetDefault("stats.top_terms", 10)
	v.SetDefault("snapshot.dir", "data")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "wh40k_lore.db")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1500)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
