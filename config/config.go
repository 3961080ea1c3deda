package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging         LoggingConfig         `yaml:"logging"`
	Server          ServerConfig          `yaml:"server"`
	Mongo           MongoConfig           `yaml:"mongo"`
	Redis           RedisConfig           `yaml:"redis"`
	YouTube         YouTubeConfig         `yaml:"youtube"`
	GeminiModel     string                `yaml:"gemini_model"`
	GenerationQuota GenerationQuotaConfig `yaml:"generation_quota"`
	Credits         CreditsConfig         `yaml:"credits"`
	Analysis        AnalysisConfig        `yaml:"analysis"`
	Archive         ArchiveConfig         `yaml:"archive"`

	// 아래 값들은 config.yaml 이 아니라 환경변수(.env)에서만 채운다.
	YouTubeAPIKey  string `yaml:"-"`
	GeminiAPIKey   string `yaml:"-"`
	MongoURI       string `yaml:"-"`
	RedisPassword  string `yaml:"-"`
	MinioAccessKey string `yaml:"-"`
	MinioSecretKey string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// YouTubeConfig 는 YouTube Data API 호출 파라미터다.
type YouTubeConfig struct {
	// MaxComments 는 분석 1회당 가져오는 최상위 댓글 수 상한이다.
	MaxComments int `yaml:"max_comments"`
	// PageSize 는 commentThreads.list 1회 호출의 최대 결과 수이다. API 상한은 100 이다.
	PageSize int `yaml:"page_size"`
	// TimeoutSeconds 는 YouTube 호출용 HTTP 클라이언트 타임아웃이다.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// GenerationQuotaConfig 는 리포트 생성용 LLM 호출에 대한 속도/일일 한도를 정의한다.
type GenerationQuotaConfig struct {
	// RequestsPerMinute 는 분당 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay 는 일일 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerDay int `yaml:"requests_per_day"`
}

type CreditsConfig struct {
	SignupGrant int `yaml:"signup_grant"`
}

type AnalysisConfig struct {
	NavigationDelayMs int `yaml:"navigation_delay_ms"`
	RunLockTTLSeconds int `yaml:"run_lock_ttl_seconds"`
}

type ArchiveConfig struct {
	Endpoint string `yaml:"endpoint"`
	Bucket   string `yaml:"bucket"`
	UseSSL   bool   `yaml:"use_ssl"`
}

// NavigationDelay 는 분석 완료 후 리포트 화면으로 이동하기까지의 지연이다.
func (a AnalysisConfig) NavigationDelay() time.Duration {
	if a.NavigationDelayMs <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(a.NavigationDelayMs) * time.Millisecond
}

func (a AnalysisConfig) RunLockTTL() time.Duration {
	if a.RunLockTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.RunLockTTLSeconds) * time.Second
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	config = c
}

// Parse 는 yaml 본문을 읽어 기본값과 환경변수 값을 채운 설정을 돌려준다.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	applyEnv(&c)
	return &c, nil
}

func applyDefaults(c *AppConfig) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "yt_insight"
	}
	if c.YouTube.MaxComments <= 0 {
		c.YouTube.MaxComments = 200
	}
	if c.YouTube.PageSize <= 0 || c.YouTube.PageSize > 100 {
		c.YouTube.PageSize = 100
	}
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = 10
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash"
	}
	if c.Credits.SignupGrant <= 0 {
		c.Credits.SignupGrant = 2
	}
	if c.Archive.Bucket == "" {
		c.Archive.Bucket = "yt-insight-reports"
	}
}

func applyEnv(c *AppConfig) {
	c.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.MinioAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	c.MinioSecretKey = os.Getenv("MINIO_SECRET_KEY")
	c.RedisPassword = os.Getenv("REDIS_PASSWORD")

	c.MongoURI = c.Mongo.URI
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.MongoURI = v
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Archive.Endpoint = v
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
