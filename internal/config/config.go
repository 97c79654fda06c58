package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Frame timing for the terminal frame driver.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Config holds every tunable of a game session. Times are in milliseconds
// unless the field says otherwise, matching how the difficulty curve is
// expressed.
type Config struct {
	Field      FieldConfig     `toml:"field" yaml:"field"`
	Physics    PhysicsConfig   `toml:"physics" yaml:"physics"`
	Ship       ShipConfig      `toml:"ship" yaml:"ship"`
	Asteroids  AsteroidConfig  `toml:"asteroids" yaml:"asteroids"`
	Bullets    BulletConfig    `toml:"bullets" yaml:"bullets"`
	Levels     LevelConfig     `toml:"levels" yaml:"levels"`
	Perimeter  PerimeterConfig `toml:"perimeter" yaml:"perimeter"`
	Explosions ExplosionConfig `toml:"explosions" yaml:"explosions"`
	Logging    LoggingConfig   `toml:"logging" yaml:"logging"`
}

// FieldConfig describes the playfield box and the camera looking down it.
// The camera sits at (SizeX/2, SizeY/2, CameraHeight) looking toward -Z.
type FieldConfig struct {
	CameraHeight      float64 `toml:"camera_height" yaml:"camera_height"`
	CameraMaxDistance float64 `toml:"camera_max_distance" yaml:"camera_max_distance"`
	SizeX             float64 `toml:"size_x" yaml:"size_x"`
	SizeY             float64 `toml:"size_y" yaml:"size_y"`
	Perspective       float64 `toml:"perspective" yaml:"perspective"` // vertical FOV, degrees
}

type PhysicsConfig struct {
	Elasticity float64 `toml:"elasticity" yaml:"elasticity"`
	Gravity    float64 `toml:"gravity" yaml:"gravity"` // along +Z, units/s²
}

type ShipConfig struct {
	Radius         float64 `toml:"radius" yaml:"radius"`
	Mass           float64 `toml:"mass" yaml:"mass"`
	Scale          float64 `toml:"scale" yaml:"scale"`
	MovementAmount float64 `toml:"movement_amount" yaml:"movement_amount"`
	MuzzleOffset   float64 `toml:"muzzle_offset" yaml:"muzzle_offset"` // bullets spawn this far ahead (-Z)
}

type AsteroidConfig struct {
	Capacity             int     `toml:"capacity" yaml:"capacity"`
	Radius               float64 `toml:"radius" yaml:"radius"`
	Mass                 float64 `toml:"mass" yaml:"mass"`
	Scale                float64 `toml:"scale" yaml:"scale"`
	MinSpeed             float64 `toml:"min_speed" yaml:"min_speed"`
	MaxSpeed             float64 `toml:"max_speed" yaml:"max_speed"`
	TimeBetweenAsteroids float64 `toml:"time_between" yaml:"time_between"`
}

type BulletConfig struct {
	Capacity           int     `toml:"capacity" yaml:"capacity"`
	Radius             float64 `toml:"radius" yaml:"radius"`
	Mass               float64 `toml:"mass" yaml:"mass"`
	Scale              float64 `toml:"scale" yaml:"scale"`
	Speed              float64 `toml:"speed" yaml:"speed"`
	TimeBetweenBullets float64 `toml:"time_between" yaml:"time_between"`
}

// LevelConfig drives difficulty progression and scoring.
type LevelConfig struct {
	SecondsPerLevel          int     `toml:"seconds_per_level" yaml:"seconds_per_level"`
	AsteroidTimeDecrease     float64 `toml:"asteroid_time_decrease" yaml:"asteroid_time_decrease"`
	MinTimeBetweenAsteroids  float64 `toml:"min_time_between_asteroids" yaml:"min_time_between_asteroids"`
	AsteroidSpeedIncrease    float64 `toml:"asteroid_speed_increase" yaml:"asteroid_speed_increase"`
	PerimeterSpeedAdjustment float64 `toml:"perimeter_speed_adjustment" yaml:"perimeter_speed_adjustment"`
	PerimeterSpeedIncrease   float64 `toml:"perimeter_speed_increase" yaml:"perimeter_speed_increase"`
	AsteroidPassedPenalty    int     `toml:"asteroid_passed_penalty" yaml:"asteroid_passed_penalty"`
	AsteroidHitBonus         int     `toml:"asteroid_hit_bonus" yaml:"asteroid_hit_bonus"`
	ShotFiredPenalty         int     `toml:"shot_fired_penalty" yaml:"shot_fired_penalty"`
}

type PerimeterConfig struct {
	Count    int     `toml:"count" yaml:"count"`
	MinSpeed float64 `toml:"min_speed" yaml:"min_speed"`
	MaxSpeed float64 `toml:"max_speed" yaml:"max_speed"`
	Scale    float64 `toml:"scale" yaml:"scale"`
}

// RGB is an 8-bit colour.
type RGB struct {
	R uint8 `toml:"r" yaml:"r"`
	G uint8 `toml:"g" yaml:"g"`
	B uint8 `toml:"b" yaml:"b"`
}

type ExplosionConfig struct {
	Capacity          int     `toml:"capacity" yaml:"capacity"`
	DisplayTime       float64 `toml:"display_time" yaml:"display_time"`
	Particles         int     `toml:"particles" yaml:"particles"`
	ParticleSpeed     float64 `toml:"particle_speed" yaml:"particle_speed"`
	ParticleLifetime  float64 `toml:"particle_lifetime" yaml:"particle_lifetime"` // seconds
	LifetimeVariance  float64 `toml:"lifetime_variance" yaml:"lifetime_variance"` // seconds
	DirectionVariance float64 `toml:"direction_variance" yaml:"direction_variance"`
	Colour            RGB     `toml:"colour" yaml:"colour"`
	ColourVariance    uint8   `toml:"colour_variance" yaml:"colour_variance"`
	Scale             float64 `toml:"scale" yaml:"scale"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	Output string `toml:"output" yaml:"output"` // file path, "stdout" or "stderr"
}

// Default returns the stock tuning of the game.
func Default() Config {
	return Config{
		Field: FieldConfig{
			CameraHeight:      1000,
			CameraMaxDistance: 6000,
			SizeX:             960,
			SizeY:             576,
			Perspective:       40,
		},
		Physics: PhysicsConfig{
			Elasticity: 1.0,
			Gravity:    10,
		},
		Ship: ShipConfig{
			Radius:         70,
			Mass:           25,
			Scale:          0.07,
			MovementAmount: 10,
			MuzzleOffset:   100,
		},
		Asteroids: AsteroidConfig{
			Capacity:             200,
			Radius:               70,
			Mass:                 40,
			Scale:                0.06,
			MinSpeed:             40,
			MaxSpeed:             120,
			TimeBetweenAsteroids: 1500,
		},
		Bullets: BulletConfig{
			Capacity:           200,
			Radius:             25,
			Mass:               25,
			Scale:              0.07,
			Speed:              200,
			TimeBetweenBullets: 100,
		},
		Levels: LevelConfig{
			SecondsPerLevel:          10,
			AsteroidTimeDecrease:     150,
			MinTimeBetweenAsteroids:  300,
			AsteroidSpeedIncrease:    20,
			PerimeterSpeedAdjustment: 1.0,
			PerimeterSpeedIncrease:   0.075,
			AsteroidPassedPenalty:    20,
			AsteroidHitBonus:         50,
			ShotFiredPenalty:         1,
		},
		Perimeter: PerimeterConfig{
			Count:    40,
			MinSpeed: 10,
			MaxSpeed: 50,
			Scale:    0.009,
		},
		Explosions: ExplosionConfig{
			Capacity:          10,
			DisplayTime:       1000,
			Particles:         75,
			ParticleSpeed:     250,
			ParticleLifetime:  0.5,
			LifetimeVariance:  0.5,
			DirectionVariance: 100,
			Colour:            RGB{R: 255},
			ColourVariance:    1,
			Scale:             0.15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load reads a TOML or YAML file (chosen by extension) on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by SHOOTER_CONFIG, or returns Default
// when the variable is unset.
func LoadFromEnv() (Config, error) {
	path := GetEnv("SHOOTER_CONFIG", "")
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects tunings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Asteroids.Capacity <= 0 {
		errs = append(errs, errors.New("asteroids.capacity must be positive"))
	}
	if c.Bullets.Capacity <= 0 {
		errs = append(errs, errors.New("bullets.capacity must be positive"))
	}
	if c.Explosions.Capacity <= 0 {
		errs = append(errs, errors.New("explosions.capacity must be positive"))
	}
	if c.Asteroids.MinSpeed > c.Asteroids.MaxSpeed {
		errs = append(errs, errors.New("asteroids.min_speed exceeds max_speed"))
	}
	if c.Perimeter.MinSpeed > c.Perimeter.MaxSpeed {
		errs = append(errs, errors.New("perimeter.min_speed exceeds max_speed"))
	}
	if c.Field.SizeX <= 0 || c.Field.SizeY <= 0 {
		errs = append(errs, errors.New("field size must be positive"))
	}
	if c.Field.CameraMaxDistance <= c.Field.CameraHeight {
		errs = append(errs, errors.New("field.camera_max_distance must exceed camera_height"))
	}
	if c.Levels.SecondsPerLevel <= 0 {
		errs = append(errs, errors.New("levels.seconds_per_level must be positive"))
	}
	return errors.Join(errs...)
}
