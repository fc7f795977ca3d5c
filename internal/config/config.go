// Package config provides configuration for the ninja robot.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variable overrides (NINJA_*). The YAML file is the
// normal way to describe a specific robot build (channel wiring, GPIO
// pins); env vars are for secrets and quick experiments.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Channels maps servo roles to PWM channels on the expansion hat.
// The wiring is configuration, not runtime state: gaits address servos
// by role, never by raw channel number.
type Channels struct {
	LeftLeg   int `yaml:"left_leg"`
	RightLeg  int `yaml:"right_leg"`
	LeftFoot  int `yaml:"left_foot"`
	RightFoot int `yaml:"right_foot"`
}

// Config holds all settings for the robot.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Web dashboard.
	WebPort string `yaml:"web_port"`

	// I2C expansion hat.
	I2CDevice string `yaml:"i2c_device"`
	BoardAddr int    `yaml:"board_addr"`

	// Servo wiring and calibration.
	Servos          Channels `yaml:"servos"`
	CalibrationFile string   `yaml:"calibration_file"`

	// Ultrasonic sensor and buzzer (BCM pin names, periph style).
	TrigPin   string `yaml:"trig_pin"`
	EchoPin   string `yaml:"echo_pin"`
	BuzzerPin string `yaml:"buzzer_pin"`

	// Obstacle detection threshold in centimeters.
	ObstacleThresholdCM float64 `yaml:"obstacle_threshold_cm"`

	// Gemini command interpreter.
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

// Default returns the configuration for the reference robot build.
func Default() Config {
	return Config{
		LogLevel:  "info",
		WebPort:   "5000",
		I2CDevice: "/dev/i2c-1",
		BoardAddr: 0x10,
		Servos: Channels{
			LeftLeg:   0,
			RightLeg:  1,
			LeftFoot:  2,
			RightFoot: 3,
		},
		CalibrationFile:     "servo.json",
		TrigPin:             "GPIO21",
		EchoPin:             "GPIO22",
		BuzzerPin:           "GPIO23",
		ObstacleThresholdCM: 10,
		GeminiModel:         "gemini-2.0-flash",
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment overrides. A missing file is not an error; an
// unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults + env only.
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envStr("NINJA_LOG_LEVEL", &c.LogLevel)
	envStr("NINJA_WEB_PORT", &c.WebPort)
	envStr("NINJA_I2C_DEVICE", &c.I2CDevice)
	envInt("NINJA_BOARD_ADDR", &c.BoardAddr)
	envStr("NINJA_CALIBRATION_FILE", &c.CalibrationFile)
	envStr("NINJA_TRIG_PIN", &c.TrigPin)
	envStr("NINJA_ECHO_PIN", &c.EchoPin)
	envStr("NINJA_BUZZER_PIN", &c.BuzzerPin)
	envFloat("NINJA_OBSTACLE_THRESHOLD_CM", &c.ObstacleThresholdCM)
	envStr("GEMINI_API_KEY", &c.GeminiAPIKey)
	envStr("NINJA_GEMINI_MODEL", &c.GeminiModel)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
