package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/hypertyper/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Game.Mode != nil || cfg.Game.TimeLimit != nil {
		t.Fatalf("expected empty config, got %+v", cfg.Game)
	}
}

func TestLoadConfigReadsGameTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[game]
mode = "food"
time-limit = 30
sound = false
god-mode = 10
player = "zed"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Mode == nil || *cfg.Game.Mode != "food" {
		t.Fatalf("unexpected mode: %v", cfg.Game.Mode)
	}
	if cfg.Game.TimeLimit == nil || *cfg.Game.TimeLimit != 30 {
		t.Fatalf("unexpected time limit: %v", cfg.Game.TimeLimit)
	}
	if cfg.Game.Sound == nil || *cfg.Game.Sound {
		t.Fatalf("expected sound=false, got %v", cfg.Game.Sound)
	}
	if cfg.Game.GodMode == nil || *cfg.Game.GodMode != 10 {
		t.Fatalf("unexpected god-mode: %v", cfg.Game.GodMode)
	}
	if cfg.Game.ShowTimer != nil {
		t.Fatalf("expected show-timer unset")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nspeed = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "speed") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := model.Config{
		Mode:             "code",
		TimeLimit:        120 * time.Second,
		ShowTimer:        true,
		Sound:            false,
		GodModeThreshold: 12,
		Lookback:         5,
		Corrections:      true,
		Player:           "ABC",
	}
	if err := SaveConfig(path, FromModel(cfg)); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if *loaded.Game.Mode != "code" || *loaded.Game.TimeLimit != 120 || !*loaded.Game.Corrections {
		t.Fatalf("unexpected round trip: %+v", loaded.Game)
	}
	if *loaded.Game.Player != "ABC" || *loaded.Game.Sound {
		t.Fatalf("unexpected round trip: %+v", loaded.Game)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be removed, got %d entries", len(entries))
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	mode := "food"
	limit := 15
	other := "cities"
	base := FileConfig{Game: GameConfig{Mode: &mode, TimeLimit: &limit}}
	merged := Merge(base, FileConfig{Game: GameConfig{Mode: &other}})
	if *merged.Game.Mode != "cities" || *merged.Game.TimeLimit != 15 {
		t.Fatalf("unexpected merge: %+v", merged.Game)
	}
}

func TestDataDirsOrder(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	dirs := DataDirs("/opt/lists")
	want := []string{"/opt/lists", "/tmp/xdg-data/hypertyper/data", SystemDataDir}
	if strings.Join(dirs, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected dirs: %v", dirs)
	}
	if got := DataDirs(""); len(got) != 2 {
		t.Fatalf("expected two dirs without explicit dir, got %v", got)
	}
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	if got := DefaultLogPath(); got != "/tmp/xdg-state/hypertyper/hypertyper.log" {
		t.Fatalf("unexpected log path: %s", got)
	}
}

func TestNormalizePlayer(t *testing.T) {
	cases := map[string]string{
		"abc":    "ABC",
		"a.b-c1": "ABC",
		"zeddy":  "ZED",
		"x9":     "X9",
		"":       DefaultPlayer,
		"!!":     DefaultPlayer,
	}
	for in, want := range cases {
		if got := NormalizePlayer(in); got != want {
			t.Fatalf("NormalizePlayer(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSettingCycles(t *testing.T) {
	if got := NextTimeLimit(60 * time.Second); got != 120*time.Second {
		t.Fatalf("expected 120s after 60s, got %v", got)
	}
	if got := NextTimeLimit(120 * time.Second); got != 15*time.Second {
		t.Fatalf("expected wrap to 15s, got %v", got)
	}
	if got := NextTimeLimit(45 * time.Second); got != 15*time.Second {
		t.Fatalf("expected unlisted limit to reset, got %v", got)
	}
	if got := NextGodModeThreshold(DefaultGodModeThreshold); got != 15 {
		t.Fatalf("expected 15 after 12, got %d", got)
	}
	if got := NextGodModeThreshold(20); got != 8 {
		t.Fatalf("expected wrap to 8, got %d", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.TimeLimit != time.Minute || cfg.GodModeThreshold != 12 || cfg.Player != "UNK" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
