package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	ListenAddr string      `json:"listenAddr"`
	WALDir     string      `json:"walDir"`
	OutboxDir  string      `json:"outboxDir"`
	WALSegment int64       `json:"walSegmentBytes"`
	Kafka      KafkaConfig `json:"kafka"`
}

// KafkaConfig describes both event feeds: the live topic gets async
// best-effort publishes, the durable topic is fed from the outbox.
type KafkaConfig struct {
	Enabled           bool     `json:"enabled"`
	Brokers           []string `json:"brokers"`
	LiveTopic         string   `json:"liveTopic"`
	DurableTopic      string   `json:"durableTopic"`
	BroadcastInterval string   `json:"broadcastInterval"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	ListenAddr        string
	WALDir            string
	OutboxDir         string
	WALSegment        int64
	KafkaEnabled      bool
	Brokers           []string
	LiveTopic         string
	DurableTopic      string
	BroadcastInterval time.Duration
}

// Load reads a JSON config file and applies defaults.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, fmt.Errorf("parse config: %w", err)
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	out := Loaded{
		ListenAddr:        cfg.ListenAddr,
		WALDir:            cfg.WALDir,
		OutboxDir:         cfg.OutboxDir,
		WALSegment:        cfg.WALSegment,
		KafkaEnabled:      cfg.Kafka.Enabled,
		Brokers:           cfg.Kafka.Brokers,
		LiveTopic:         cfg.Kafka.LiveTopic,
		DurableTopic:      cfg.Kafka.DurableTopic,
		BroadcastInterval: 250 * time.Millisecond,
	}
	if out.ListenAddr == "" {
		out.ListenAddr = ":8080"
	}
	if out.WALDir == "" {
		out.WALDir = "./wal"
	}
	if out.OutboxDir == "" {
		out.OutboxDir = "./outbox"
	}
	if out.WALSegment == 0 {
		out.WALSegment = 2 * 1024 * 1024
	}
	if cfg.Kafka.BroadcastInterval != "" {
		d, err := time.ParseDuration(cfg.Kafka.BroadcastInterval)
		if err != nil {
			return Loaded{}, fmt.Errorf("parse broadcastInterval: %w", err)
		}
		out.BroadcastInterval = d
	}
	if out.KafkaEnabled {
		if len(out.Brokers) == 0 {
			return Loaded{}, fmt.Errorf("kafka enabled with no brokers")
		}
		if out.LiveTopic == "" {
			out.LiveTopic = "events.live"
		}
		if out.DurableTopic == "" {
			out.DurableTopic = "events.durable"
		}
	}
	return out, nil
}

// Default returns the zero-file configuration.
func Default() Loaded {
	loaded, _ := resolve(FileConfig{})
	return loaded
}
