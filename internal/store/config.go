package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"portfolio-news-alerts/internal/types"
)

const (
	DefaultTickers          = "UVIX,UUUU,URNJ,REMX,NLR,UFO,SMR,NUKZ,OKLO,ARKVX,INNOX"
	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultLookbackDaily    = 24
	DefaultLookbackBreaking = 6
	DefaultMaxPromptItems   = 80
	DefaultTemperature      = 0.4
	DefaultFetchTimeoutSecs = 30
	DefaultSeenPath         = "seen.json"
	DefaultRunLogDir        = "logs"
)

// Config is built once at startup and handed to every component. Secrets come from
// the environment only; everything else may also be set in the optional YAML file.
type Config struct {
	Mode             types.Mode `yaml:"-"`
	ModeRaw          string     `yaml:"mode"`
	Tickers          []string   `yaml:"tickers"`
	LookbackDaily    int        `yaml:"lookback_hours_daily"`
	LookbackBreaking int        `yaml:"lookback_hours_breaking"`
	SeenPath         string     `yaml:"seen_path"`
	DryRun           bool       `yaml:"dry_run"`

	Finnhub struct {
		APIKey          string `yaml:"-"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		EnrichSummaries bool   `yaml:"enrich_summaries"`
	} `yaml:"finnhub"`

	LLM struct {
		APIKey      string  `yaml:"-"`
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		MaxItems    int     `yaml:"max_items"`
	} `yaml:"llm"`

	Email struct {
		SendGridAPIKey string `yaml:"-"`
		From           string `yaml:"from"`
		To             string `yaml:"to"`
	} `yaml:"email"`

	RunLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"run_log"`
}

// LookbackFor returns the lookback window of a mode.
func (c *Config) LookbackFor(m types.Mode) time.Duration {
	if m == types.ModeBreaking {
		return time.Duration(c.LookbackBreaking) * time.Hour
	}
	return time.Duration(c.LookbackDaily) * time.Hour
}

// FetchTimeout is the fixed connect/read timeout of the news API client.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Finnhub.TimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	mode, err := types.ParseMode(c.ModeRaw)
	if err != nil {
		return err
	}
	c.Mode = mode

	required := []struct{ name, value string }{
		{"FINNHUB_API_KEY", c.Finnhub.APIKey},
		{"OPENAI_API_KEY", c.LLM.APIKey},
		{"SENDGRID_API_KEY", c.Email.SendGridAPIKey},
		{"FROM_EMAIL", c.Email.From},
		{"TO_EMAIL", c.Email.To},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("Missing env var: %s", r.name)
		}
	}

	if c.LookbackDaily <= 0 || c.LookbackBreaking <= 0 {
		return fmt.Errorf("lookback hours must be positive, got daily=%d breaking=%d", c.LookbackDaily, c.LookbackBreaking)
	}
	if c.LLM.MaxItems <= 0 {
		return fmt.Errorf("llm.max_items must be positive, got %d", c.LLM.MaxItems)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	if c.Finnhub.TimeoutSeconds <= 0 {
		return fmt.Errorf("finnhub.timeout_seconds must be positive, got %d", c.Finnhub.TimeoutSeconds)
	}
	return nil
}

func defaults() Config {
	var c Config
	c.ModeRaw = string(types.ModeDaily)
	c.Tickers = types.ParseTickers(DefaultTickers)
	c.LookbackDaily = DefaultLookbackDaily
	c.LookbackBreaking = DefaultLookbackBreaking
	c.SeenPath = DefaultSeenPath
	c.Finnhub.TimeoutSeconds = DefaultFetchTimeoutSecs
	c.LLM.Model = DefaultOpenAIModel
	c.LLM.Temperature = DefaultTemperature
	c.LLM.MaxItems = DefaultMaxPromptItems
	c.RunLog.Dir = DefaultRunLogDir
	return c
}

// LoadConfig builds the configuration: defaults, then the YAML file at path (a
// missing file is fine), then the environment. It fails before any network call
// when a required variable is absent.
func LoadConfig(path string) (*Config, error) {
	c := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			// YAML lists are normalized the same way TICKERS is
			c.Tickers = types.ParseTickers(strings.Join(c.Tickers, ","))
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(&c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyEnv(c *Config) error {
	setString(&c.ModeRaw, "MODE")
	if v, ok := lookup("TICKERS"); ok {
		c.Tickers = types.ParseTickers(v)
	}
	setString(&c.SeenPath, "SEEN_PATH")
	setString(&c.LLM.Model, "OPENAI_MODEL")
	setString(&c.Email.From, "FROM_EMAIL")
	setString(&c.Email.To, "TO_EMAIL")
	setString(&c.RunLog.Dir, "RUN_LOG_DIR")

	c.Finnhub.APIKey = os.Getenv("FINNHUB_API_KEY")
	c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	c.Email.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")

	ints := []struct {
		name string
		dst  *int
	}{
		{"LOOKBACK_HOURS_DAILY", &c.LookbackDaily},
		{"LOOKBACK_HOURS_BREAKING", &c.LookbackBreaking},
		{"LLM_MAX_ITEMS", &c.LLM.MaxItems},
		{"FETCH_TIMEOUT_SECONDS", &c.Finnhub.TimeoutSeconds},
		{"RUN_LOG_RETENTION_DAYS", &c.RunLog.RetentionDays},
	}
	for _, i := range ints {
		v, ok := lookup(i.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", i.name, v, err)
		}
		*i.dst = n
	}

	if v, ok := lookup("OPENAI_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OPENAI_TEMPERATURE %q: %w", v, err)
		}
		c.LLM.Temperature = f
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"DRY_RUN", &c.DryRun},
		{"ENRICH_SUMMARIES", &c.Finnhub.EnrichSummaries},
	}
	for _, b := range bools {
		v, ok := lookup(b.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", b.name, v, err)
		}
		*b.dst = parsed
	}
	return nil
}

// lookup treats blank values as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
