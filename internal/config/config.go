package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// GameConfig carries the table-level settings of a Trix match.
type GameConfig struct {
	ContractsPerKingdom int `json:"contracts_per_kingdom"`
	KingdomLimit        int `json:"kingdom_limit"`
	// TrickSettleDelayMillis is how long a completed trick stays on display
	// before it is swept.
	TrickSettleDelayMillis int `json:"trick_settle_delay_millis"`
	// BotActDelayMillis paces bot actions so they read as deliberate.
	BotActDelayMillis int `json:"bot_act_delay_millis"`
	// BotAutoFillDelaySeconds configures how long a solo human lobby waits
	// before bots fill the empty seats.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	BotsEnabled             bool   `json:"bots_enabled"`
	LeaderboardID           string `json:"leaderboard_id"`
}

// AIConfig carries the reasoning-service settings for the bot pipeline.
type AIConfig struct {
	Endpoint              string `json:"endpoint"`
	Issuer                string `json:"issuer"`
	Secret                string `json:"secret"`
	CardTimeoutMillis     int    `json:"card_timeout_millis"`
	ContractTimeoutMillis int    `json:"contract_timeout_millis"`
	CacheTTLMinutes       int    `json:"cache_ttl_minutes"`
	CacheSize             int    `json:"cache_size"`
	DefaultDifficulty     string `json:"default_difficulty"`
}

var (
	gameCfg      *GameConfig
	aiCfg        *AIConfig
	gameLoadOnce sync.Once
	aiLoadOnce   sync.Once
	gameLoadErr  error
	aiLoadErr    error
)

// DefaultGameConfig is used when no config file is provided.
var DefaultGameConfig = GameConfig{
	ContractsPerKingdom:     4,
	KingdomLimit:            2,
	TrickSettleDelayMillis:  1200,
	BotActDelayMillis:       800,
	BotAutoFillDelaySeconds: 10,
	BotsEnabled:             true,
	LeaderboardID:           "trix_season",
}

// DefaultAIConfig points at a local sidecar with the documented timeouts.
var DefaultAIConfig = AIConfig{
	Endpoint:              "http://127.0.0.1:8090",
	Issuer:                "trix-server",
	CardTimeoutMillis:     2000,
	ContractTimeoutMillis: 5000,
	CacheTTLMinutes:       10,
	CacheSize:             512,
	DefaultDifficulty:     "medium",
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	gameLoadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			gameLoadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c := DefaultGameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			gameLoadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		gameCfg = &c
	})
	return gameLoadErr
}

// GetGameConfig returns the loaded game configuration, or the defaults.
func GetGameConfig() GameConfig {
	if gameCfg == nil {
		return DefaultGameConfig
	}
	return *gameCfg
}

// LoadAIConfig loads the reasoning-service configuration from the given path.
func LoadAIConfig(path string) error {
	aiLoadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			aiLoadErr = fmt.Errorf("failed to read ai config: %w", err)
			return
		}
		c := DefaultAIConfig
		if err := json.Unmarshal(data, &c); err != nil {
			aiLoadErr = fmt.Errorf("failed to unmarshal ai config: %w", err)
			return
		}
		aiCfg = &c
	})
	return aiLoadErr
}

// GetAIConfig returns the loaded AI configuration, or the defaults. The
// secret may still be overridden from the environment so it never has to live
// in a file.
func GetAIConfig() AIConfig {
	c := DefaultAIConfig
	if aiCfg != nil {
		c = *aiCfg
	}
	if env := os.Getenv("TRIX_AI_SECRET"); env != "" {
		c.Secret = env
	}
	if env := os.Getenv("TRIX_AI_ENDPOINT"); env != "" {
		c.Endpoint = env
	}
	return c
}

// CardTimeout returns the per-card advisor deadline.
func (c AIConfig) CardTimeout() time.Duration {
	return time.Duration(c.CardTimeoutMillis) * time.Millisecond
}

// ContractTimeout returns the per-contract advisor deadline.
func (c AIConfig) ContractTimeout() time.Duration {
	return time.Duration(c.ContractTimeoutMillis) * time.Millisecond
}

// CacheTTL returns the decision cache entry lifetime.
func (c AIConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
