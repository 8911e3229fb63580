package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"portfolio-news-alerts/internal/types"
)

var allKeys = []string{
	"MODE", "TICKERS", "LOOKBACK_HOURS_DAILY", "LOOKBACK_HOURS_BREAKING",
	"FINNHUB_API_KEY", "OPENAI_API_KEY", "OPENAI_MODEL", "SENDGRID_API_KEY",
	"FROM_EMAIL", "TO_EMAIL", "SEEN_PATH", "OPENAI_TEMPERATURE", "LLM_MAX_ITEMS",
	"FETCH_TIMEOUT_SECONDS", "ENRICH_SUMMARIES", "DRY_RUN", "RUN_LOG_DIR",
	"RUN_LOG_RETENTION_DAYS",
}

// setRequired clears every recognized variable and sets the required ones.
func setRequired(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	t.Setenv("FINNHUB_API_KEY", "fh")
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("SENDGRID_API_KEY", "sg")
	t.Setenv("FROM_EMAIL", "bot@example.com")
	t.Setenv("TO_EMAIL", "me@example.com")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Mode != types.ModeDaily {
		t.Errorf("Mode = %q, want daily", cfg.Mode)
	}
	wantTickers := []string{"UVIX", "UUUU", "URNJ", "REMX", "NLR", "UFO", "SMR", "NUKZ", "OKLO", "ARKVX", "INNOX"}
	if !reflect.DeepEqual(cfg.Tickers, wantTickers) {
		t.Errorf("Tickers = %v", cfg.Tickers)
	}
	if cfg.LookbackFor(types.ModeDaily) != 24*time.Hour || cfg.LookbackFor(types.ModeBreaking) != 6*time.Hour {
		t.Errorf("unexpected lookbacks: %d/%d", cfg.LookbackDaily, cfg.LookbackBreaking)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.Temperature != 0.4 || cfg.LLM.MaxItems != 80 {
		t.Errorf("unexpected LLM defaults: %+v", cfg.LLM)
	}
	if cfg.FetchTimeout() != 30*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout())
	}
	if cfg.SeenPath != "seen.json" || cfg.DryRun || cfg.Finnhub.EnrichSummaries {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MODE", " Breaking ")
	t.Setenv("TICKERS", "oklo, smr")
	t.Setenv("LOOKBACK_HOURS_BREAKING", "3")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("DRY_RUN", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != types.ModeBreaking {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if !reflect.DeepEqual(cfg.Tickers, []string{"OKLO", "SMR"}) {
		t.Errorf("Tickers = %v", cfg.Tickers)
	}
	if cfg.LookbackFor(types.ModeBreaking) != 3*time.Hour {
		t.Errorf("breaking lookback = %v", cfg.LookbackFor(types.ModeBreaking))
	}
	if cfg.LLM.Model != "gpt-4.1-mini" || !cfg.DryRun {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigSeparatorOnlyTickersIsEmpty(t *testing.T) {
	setRequired(t)
	t.Setenv("TICKERS", " , ,")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("an empty ticker list is allowed: %v", err)
	}
	if len(cfg.Tickers) != 0 {
		t.Errorf("Tickers = %v, want none", cfg.Tickers)
	}
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
mode: breaking
tickers: [nlr, ufo]
lookback_hours_daily: 48
seen_path: state/seen.json
llm:
  temperature: 0.2
  max_items: 40
run_log:
  dir: journal
  retention_days: 14
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOOKBACK_HOURS_DAILY", "12")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != types.ModeBreaking || !reflect.DeepEqual(cfg.Tickers, []string{"NLR", "UFO"}) {
		t.Errorf("yaml values not applied: %q %v", cfg.Mode, cfg.Tickers)
	}
	if cfg.LookbackDaily != 12 {
		t.Errorf("env should win over yaml, got %d", cfg.LookbackDaily)
	}
	if cfg.SeenPath != "state/seen.json" || cfg.LLM.Temperature != 0.2 || cfg.LLM.MaxItems != 40 {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if cfg.RunLog.Dir != "journal" || cfg.RunLog.RetentionDays != 14 {
		t.Errorf("run log settings not applied: %+v", cfg.RunLog)
	}
	if cfg.LLM.Model != DefaultOpenAIModel {
		t.Errorf("unset yaml keys should keep defaults, got %q", cfg.LLM.Model)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	for _, key := range []string{"FINNHUB_API_KEY", "OPENAI_API_KEY", "SENDGRID_API_KEY", "FROM_EMAIL", "TO_EMAIL"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "  ")

			_, err := LoadConfig("")
			if err == nil {
				t.Fatalf("expected error when %s is blank", key)
			}
			if !strings.Contains(err.Error(), "Missing env var: "+key) {
				t.Errorf("error %q should name %s", err, key)
			}
		})
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := map[string]string{
		"MODE":                 "hourly",
		"LOOKBACK_HOURS_DAILY": "a day",
		"OPENAI_TEMPERATURE":   "warm",
		"DRY_RUN":              "maybe",
		"LLM_MAX_ITEMS":        "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := LoadConfig(""); err == nil {
				t.Errorf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tickers: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
