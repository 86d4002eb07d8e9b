package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("CASHBURN_LOG_LEVEL", "")
	t.Setenv("CASHBURN_ADDR", "")
	t.Setenv("CASHBURN_MAX_UPLOAD_MB", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	def := DefaultConfig()
	if cfg.General.SmoothingPoints != def.General.SmoothingPoints {
		t.Errorf("SmoothingPoints = %d, want %d", cfg.General.SmoothingPoints, def.General.SmoothingPoints)
	}
	if cfg.Schema.Date != "Date" || cfg.Schema.ClosingBalance != "Closing Balance" {
		t.Errorf("schema = %+v", cfg.Schema)
	}
	if cfg.Server.Addr != def.Server.Addr {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestSaveToLoadFrom(t *testing.T) {
	t.Setenv("CASHBURN_LOG_LEVEL", "")
	t.Setenv("CASHBURN_ADDR", "")
	t.Setenv("CASHBURN_MAX_UPLOAD_MB", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.SmoothingPoints = 120
	cfg.General.CurrentBalance = BalanceLatest
	cfg.General.DateLayouts = []string{"02/01/2006"}
	cfg.Schema.AssumptionColumns = []string{"Hiring Plan"}
	cfg.Appearance.Theme = "catppuccin-mocha"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if got.General.SmoothingPoints != 120 {
		t.Errorf("SmoothingPoints = %d, want 120", got.General.SmoothingPoints)
	}
	if got.General.CurrentBalance != BalanceLatest {
		t.Errorf("CurrentBalance = %q", got.General.CurrentBalance)
	}
	if len(got.General.DateLayouts) != 1 || got.General.DateLayouts[0] != "02/01/2006" {
		t.Errorf("DateLayouts = %v", got.General.DateLayouts)
	}
	if len(got.Schema.AssumptionColumns) != 1 || got.Schema.AssumptionColumns[0] != "Hiring Plan" {
		t.Errorf("AssumptionColumns = %v", got.Schema.AssumptionColumns)
	}
	if got.Appearance.Theme != "catppuccin-mocha" {
		t.Errorf("Theme = %q", got.Appearance.Theme)
	}
}

func TestLoadFrom_FillsBlankSchemaAndPoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[general]\nsmoothing_points = 1\n\n[schema]\ndate = \"Month\"\nopening_balance = \"\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Schema.Date != "Month" {
		t.Errorf("Date = %q, want Month", cfg.Schema.Date)
	}
	if cfg.Schema.OpeningBalance != "Opening Balance" {
		t.Errorf("OpeningBalance = %q, want default", cfg.Schema.OpeningBalance)
	}
	if cfg.General.SmoothingPoints != 500 {
		t.Errorf("SmoothingPoints = %d, want 500", cfg.General.SmoothingPoints)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CASHBURN_LOG_LEVEL", "debug")
	t.Setenv("CASHBURN_ADDR", ":9999")
	t.Setenv("CASHBURN_MAX_UPLOAD_MB", "3")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" || cfg.Server.Addr != ":9999" || cfg.Server.MaxUploadMB != 3 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Log, cfg.Server)
	}

	t.Setenv("CASHBURN_MAX_UPLOAD_MB", "-1")
	cfg, _ = LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if cfg.Server.MaxUploadMB != DefaultConfig().Server.MaxUploadMB {
		t.Errorf("negative upload limit accepted: %d", cfg.Server.MaxUploadMB)
	}
}

func TestSchema_IsAssumption(t *testing.T) {
	s := DefaultSchema()
	cases := map[string]bool{
		"Assumptions":       true,
		"Growth Assumption": true,
		"assumptions":       false,
		"Closing Balance":   false,
		"Notes":             false,
	}
	for col, want := range cases {
		if got := s.IsAssumption(col); got != want {
			t.Errorf("IsAssumption(%q) = %v, want %v", col, got, want)
		}
	}

	s.AssumptionColumns = []string{"Notes"}
	if !s.IsAssumption("Notes") || s.IsAssumption("Assumptions") {
		t.Error("explicit AssumptionColumns should replace substring matching")
	}

	s = DefaultSchema()
	s.AssumptionMatch = ""
	if s.IsAssumption("Assumptions") {
		t.Error("empty AssumptionMatch should match nothing")
	}
}

func TestSchema_RequiredOptional(t *testing.T) {
	s := DefaultSchema()
	req := s.Required()
	if len(req) != 3 || req[0] != "Date" || req[1] != "Opening Balance" || req[2] != "Closing Balance" {
		t.Errorf("Required = %v", req)
	}

	s.AssumptionColumns = []string{"Plan"}
	opt := s.Optional()
	if len(opt) != 3 || opt[0] != "Cash Runway (Months)" || opt[2] != "Plan" {
		t.Errorf("Optional = %v", opt)
	}
}
