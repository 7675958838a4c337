package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talentscout"
)

type Config struct {
	Interview *InterviewConfig `mapstructure:"interview"`
	Sink      *SinkConfig      `mapstructure:"sink"`
	Server    *ServerConfig    `mapstructure:"server"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type InterviewConfig struct {
	TypingDelay               time.Duration `mapstructure:"typing-delay"`
	ClosingDelay              time.Duration `mapstructure:"closing-delay"`
	MaxQuestionsPerTechnology int           `mapstructure:"max-questions-per-technology"`
	DateLayout                string        `mapstructure:"date-layout"`
	Keywords                  []string      `mapstructure:"keywords"`
	// Questions is a list of {technology, questions} decoded by questionbank.Decode.
	Questions     any    `mapstructure:"questions"`
	QuestionsFile string `mapstructure:"questions-file"`
}

type SinkConfig struct {
	URL       string        `mapstructure:"url"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Listen   string `mapstructure:"listen"`
	Database string `mapstructure:"database"`
	// TokenFile holds the bearer token required by the /api/logs routes.
	TokenFile          string        `mapstructure:"token-file"`
	SessionIdleTimeout time.Duration `mapstructure:"session-idle-timeout"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout runs scripted candidate screening interviews and keeps their application log",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("interview.typing-delay", time.Second)
	viper.SetDefault("interview.closing-delay", 1500*time.Millisecond)
	viper.SetDefault("interview.max-questions-per-technology", 3)
	viper.SetDefault("interview.date-layout", "1/2/2006")
	viper.SetDefault("interview.questions-file", "")
	viper.SetDefault("sink.url", "")
	viper.SetDefault("sink.token-file", "")
	viper.SetDefault("sink.timeout", 10*time.Second)
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.database", "applications.db")
	viper.SetDefault("server.token-file", "")
	viper.SetDefault("server.session-idle-timeout", 30*time.Minute)
	viper.SetDefault("ai.gemini.model", "")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// .env is optional and never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(app)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config every setting has a usable default.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config == nil {
		config = &Config{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.Sink == nil {
		config.Sink = &SinkConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
