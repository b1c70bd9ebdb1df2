package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS     GPSConfig     `yaml:"gps"`
	Web     WebConfig     `yaml:"web"`
	Publish PublishConfig `yaml:"publish"`
	PPS     PPSConfig     `yaml:"pps"`
}

type GPSConfig struct {
	Enable bool   `yaml:"enable"`
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

type PublishConfig struct {
	UDP  UDPConfig  `yaml:"udp"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

type UDPConfig struct {
	Enable   bool          `yaml:"enable"`
	Dest     string        `yaml:"dest"`
	Interval time.Duration `yaml:"interval"`
}

type MQTTConfig struct {
	Enable    bool    `yaml:"enable"`
	Broker    string  `yaml:"broker"`
	Topic     string  `yaml:"topic"`
	ClientID  string  `yaml:"client_id"`
	MaxRateHz float64 `yaml:"max_rate_hz"`
}

type PPSConfig struct {
	Enable bool   `yaml:"enable"`
	Chip   string `yaml:"chip"`
	Line   int    `yaml:"line"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.GPS.Baud < 0 {
		return Config{}, fmt.Errorf("gps.baud must be >= 0")
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}

	if cfg.Publish.UDP.Enable {
		if cfg.Publish.UDP.Dest == "" {
			return Config{}, fmt.Errorf("publish.udp.dest is required when publish.udp.enable is true")
		}
		if cfg.Publish.UDP.Interval <= 0 {
			cfg.Publish.UDP.Interval = 1 * time.Second
		}
	}

	if cfg.Publish.MQTT.Enable {
		if cfg.Publish.MQTT.Broker == "" {
			return Config{}, fmt.Errorf("publish.mqtt.broker is required when publish.mqtt.enable is true")
		}
		if cfg.Publish.MQTT.Topic == "" {
			cfg.Publish.MQTT.Topic = "gnssfix/fix"
		}
		if cfg.Publish.MQTT.ClientID == "" {
			cfg.Publish.MQTT.ClientID = "gnssfix"
		}
		if cfg.Publish.MQTT.MaxRateHz < 0 {
			return Config{}, fmt.Errorf("publish.mqtt.max_rate_hz must be >= 0")
		}
		if cfg.Publish.MQTT.MaxRateHz == 0 {
			cfg.Publish.MQTT.MaxRateHz = 1
		}
	}

	if cfg.PPS.Enable {
		if cfg.PPS.Chip == "" {
			cfg.PPS.Chip = "/dev/gpiochip0"
		}
		if cfg.PPS.Line < 0 {
			return Config{}, fmt.Errorf("pps.line must be >= 0")
		}
	}

	return cfg, nil
}
