package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Upstream struct {
		BaseURL           string   `json:"base_url"`
		RequestTimeout    Duration `json:"request_timeout"`
		PageSize          int      `json:"page_size"`
		WebhookSigningKey string   `json:"webhook_signing_key"`
	} `json:"upstream,omitempty"`

	Sync struct {
		SweepInterval    Duration `json:"sweep_interval"`
		LockTTL          Duration `json:"lock_ttl"`
		MaxRetries       int      `json:"max_retries"`
		MaxRestarts      int      `json:"max_restarts"`
		TriggerQueueSize int      `json:"trigger_queue_size"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Upstream: Upstream{
			BaseURL:           jsonCfg.Upstream.BaseURL,
			RequestTimeout:    time.Duration(jsonCfg.Upstream.RequestTimeout),
			PageSize:          jsonCfg.Upstream.PageSize,
			WebhookSigningKey: jsonCfg.Upstream.WebhookSigningKey,
		},
		Sync: Sync{
			SweepInterval:    time.Duration(jsonCfg.Sync.SweepInterval),
			LockTTL:          time.Duration(jsonCfg.Sync.LockTTL),
			MaxRetries:       jsonCfg.Sync.MaxRetries,
			MaxRestarts:      jsonCfg.Sync.MaxRestarts,
			TriggerQueueSize: jsonCfg.Sync.TriggerQueueSize,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
