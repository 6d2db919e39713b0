package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	nftrouter "github.com/kaifufi/nft-router-sdk-go"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestUnmarshalConfig_File(t *testing.T) {
	path := writeConfig(t, `
chain_id = 137
referrer = "reservoir"
deadline_ttl = "30m"

[api]
port = ":9000"
cors_origins = ["https://example.org"]

[log]
level = "debug"

[address_overrides]
"wyvern-v2.3" = "0x00000000000000000000000000000000000000a1"
seaport = "0x00000000000000000000000000000000000000a2"
`)

	c, err := UnmarshalConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if c.ChainID != 137 || c.Referrer != "reservoir" || c.DeadlineTTL != 30*time.Minute {
		t.Errorf("Unexpected config: %+v", c)
	}
	if c.Api.Port != ":9000" || c.Api.MaxItems != 50 || len(c.Api.CorsOrigins) != 1 {
		t.Errorf("Unexpected api config: %+v", c.Api)
	}
	if c.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %s", c.Log.Level)
	}

	overrides, err := c.Overrides()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if overrides[nftrouter.ExchangeKindWyvernV23] != common.HexToAddress("0x00000000000000000000000000000000000000a1") {
		t.Errorf("Unexpected wyvern override: %v", overrides)
	}
	if overrides[nftrouter.ExchangeKindSeaport] != common.HexToAddress("0x00000000000000000000000000000000000000a2") {
		t.Errorf("Unexpected seaport override: %v", overrides)
	}
}

func TestUnmarshalConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NFTROUTER_API_PORT", ":7000")
	t.Setenv("NFTROUTER_CHAIN_ID", "5")

	c, err := UnmarshalConfig(writeConfig(t, "chain_id = 1\n"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if c.Api.Port != ":7000" || c.ChainID != 5 {
		t.Errorf("Expected env overrides, got port %s chain %d", c.Api.Port, c.ChainID)
	}
}

func TestUnmarshalConfig_Defaults(t *testing.T) {
	c, err := UnmarshalConfig("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if c.ChainID != nftrouter.ChainIDMainnet || c.Api.Port != ":8080" || c.DeadlineTTL != time.Hour {
		t.Errorf("Unexpected defaults: %+v", c)
	}
}

func TestUnmarshalConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown kind", "[address_overrides]\nopensea = \"0x00000000000000000000000000000000000000a1\"\n"},
		{"bad address", "[address_overrides]\nblur = \"nope\"\n"},
		{"bad chain", "chain_id = -1\n"},
		{"bad max items", "[api]\nmax_items = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	if _, err := UnmarshalConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected missing file to fail")
	}
}
