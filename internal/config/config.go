// Package config loads colony tunables from an optional YAML file and COLONY_* env overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"colonyai/internal/domain/role"
	"colonyai/internal/domain/spawnplan"
	"colonyai/internal/domain/world"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	TickMs     int    `yaml:"tick_ms"`
	ManualStep bool   `yaml:"manual_step"`
	Store      string `yaml:"store"`
	DBDSN      string `yaml:"db_dsn"`
	SQLitePath string `yaml:"sqlite_path"`
	JournalDir string `yaml:"journal_dir"`

	Chain    ChainTuning    `yaml:"chain"`
	Movement MovementTuning `yaml:"movement"`
	Spawn    SpawnTuning    `yaml:"spawn"`
	Room     RoomTuning     `yaml:"room"`
	Sim      SimTuning      `yaml:"sim"`
}

type ChainTuning struct {
	Stride    int `yaml:"stride"`
	AnchorX   int `yaml:"anchor_x"`
	AnchorY   int `yaml:"anchor_y"`
	BaseRange int `yaml:"base_range"`
	PlainCost int `yaml:"plain_cost"`
	SwampCost int `yaml:"swamp_cost"`
}

type MovementTuning struct {
	PathReuseTicks int `yaml:"path_reuse_ticks"`
}

type RoleTuning struct {
	Body     []string `yaml:"body"`
	MinCount int      `yaml:"min_count"`
	Priority int      `yaml:"priority"`
}

type SpawnTuning struct {
	MaxBodyScale int                   `yaml:"max_body_scale"`
	NodeBody     []string              `yaml:"node_body"`
	Roles        map[string]RoleTuning `yaml:"roles"`
}

type RoomTuning struct {
	DowngradeAlertTicks int `yaml:"downgrade_alert_ticks"`
	AlertPriority       int `yaml:"alert_priority"`
	NormalPriority      int `yaml:"normal_priority"`
}

type SimTuning struct {
	Seed    int64    `yaml:"seed"`
	Regions []string `yaml:"regions"`
}

func Default() Config {
	return Config{
		HTTPAddr:   ":8080",
		TickMs:     1000,
		Store:      StoreMemory,
		SQLitePath: "./data/colony.db",
		Chain: ChainTuning{
			Stride:    5,
			AnchorX:   25,
			AnchorY:   25,
			BaseRange: 3,
			PlainCost: 1,
			SwampCost: 5,
		},
		Movement: MovementTuning{PathReuseTicks: 50},
		Spawn: SpawnTuning{
			MaxBodyScale: spawnplan.DefaultMaxScale,
			NodeBody:     []string{"work", "carry", "move", "move"},
			Roles: map[string]RoleTuning{
				string(role.Harvester): {Body: []string{"work", "carry", "move"}, MinCount: 2, Priority: 1},
				string(role.Upgrader):  {Body: []string{"work", "carry", "move"}, MinCount: 3, Priority: 2},
				string(role.Builder):   {Body: []string{"work", "carry", "move"}, MinCount: 2, Priority: 3},
			},
		},
		Room: RoomTuning{
			DowngradeAlertTicks: 1000,
			AlertPriority:       0,
			NormalPriority:      2,
		},
		Sim: SimTuning{Seed: 1337, Regions: []string{"W1N1"}},
	}
}

// Load overlays the YAML file at path onto Default. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads COLONY_CONFIG when set, applies env overrides and validates the result.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(getenv("COLONY_CONFIG")); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv(getenv func(string) string) {
	c.HTTPAddr = stringEnv(getenv, "COLONY_HTTP_ADDR", c.HTTPAddr)
	c.TickMs = intEnv(getenv, "COLONY_TICK_MS", c.TickMs)
	c.ManualStep = boolEnv(getenv, "COLONY_MANUAL_STEP", c.ManualStep)
	c.Store = strings.ToLower(stringEnv(getenv, "COLONY_STORE", c.Store))
	c.DBDSN = stringEnv(getenv, "COLONY_DB_DSN", c.DBDSN)
	c.SQLitePath = stringEnv(getenv, "COLONY_SQLITE_PATH", c.SQLitePath)
	c.JournalDir = stringEnv(getenv, "COLONY_JOURNAL_DIR", c.JournalDir)
	c.Sim.Seed = int64(intEnv(getenv, "COLONY_SEED", int(c.Sim.Seed)))
}

func (c Config) Validate() error {
	switch {
	case c.TickMs <= 0:
		return fmt.Errorf("%w: tick_ms must be positive", ErrInvalidConfig)
	case c.Chain.Stride < 1:
		return fmt.Errorf("%w: chain.stride must be >= 1", ErrInvalidConfig)
	case c.Chain.BaseRange < 0:
		return fmt.Errorf("%w: chain.base_range must be >= 0", ErrInvalidConfig)
	case !(world.Point{X: c.Chain.AnchorX, Y: c.Chain.AnchorY}).InBounds():
		return fmt.Errorf("%w: chain anchor out of bounds", ErrInvalidConfig)
	case c.Chain.PlainCost < 1 || c.Chain.SwampCost < 1:
		return fmt.Errorf("%w: terrain costs must be >= 1", ErrInvalidConfig)
	case c.Movement.PathReuseTicks < 0:
		return fmt.Errorf("%w: movement.path_reuse_ticks must be >= 0", ErrInvalidConfig)
	case c.Spawn.MaxBodyScale < 1:
		return fmt.Errorf("%w: spawn.max_body_scale must be >= 1", ErrInvalidConfig)
	case len(c.Spawn.NodeBody) == 0:
		return fmt.Errorf("%w: spawn.node_body is empty", ErrInvalidConfig)
	case len(c.Sim.Regions) == 0:
		return fmt.Errorf("%w: sim.regions is empty", ErrInvalidConfig)
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: store %q needs COLONY_DB_DSN", ErrInvalidConfig, c.Store)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if _, err := c.NodeBody(); err != nil {
		return err
	}
	if _, err := c.ColonyConfig(); err != nil {
		return err
	}
	return nil
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

func (c Config) Anchor() world.Point {
	return world.Point{X: c.Chain.AnchorX, Y: c.Chain.AnchorY}
}

func parseBody(raw []string) ([]world.BodyPart, error) {
	out := make([]world.BodyPart, 0, len(raw))
	for _, s := range raw {
		p, err := world.ParseBodyPart(strings.ToLower(strings.TrimSpace(s)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (c Config) NodeBody() ([]world.BodyPart, error) {
	return parseBody(c.Spawn.NodeBody)
}

// ColonyConfig converts the role table into the persisted colony config seeded on first run.
func (c Config) ColonyConfig() (spawnplan.ColonyConfig, error) {
	out := spawnplan.ColonyConfig{CreepRoles: make(map[role.Kind]spawnplan.RoleConfig, len(c.Spawn.Roles))}
	for name, rt := range c.Spawn.Roles {
		k, err := role.Parse(name)
		if err != nil || !k.IsPopulation() {
			return out, fmt.Errorf("%w: unknown population role %q", ErrInvalidConfig, name)
		}
		body, err := parseBody(rt.Body)
		if err != nil {
			return out, err
		}
		if len(body) == 0 {
			return out, fmt.Errorf("%w: role %q has an empty body", ErrInvalidConfig, name)
		}
		out.CreepRoles[k] = spawnplan.RoleConfig{Body: body, MinCount: rt.MinCount, Priority: rt.Priority}
	}
	return out, nil
}

func stringEnv(getenv func(string) string, key, fallback string) string {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(getenv func(string) string, key string, fallback int) int {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnv(getenv func(string) string, key string, fallback bool) bool {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
