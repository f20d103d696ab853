package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and a
// string-friendly Duration type, so operators can write "30s" instead of
// nanosecond integers in the config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		TokenDuration     Duration `json:"token_duration"`
		HashKey           string   `json:"hash_key"`
		OTPTTL            Duration `json:"otp_ttl"`
		OTPResendCooldown Duration `json:"otp_resend_cooldown"`
		OTPMaxAttempts    int      `json:"otp_max_attempts"`
		CaptchaTTL        Duration `json:"captcha_ttl"`
		DefaultPassword   string   `json:"default_password"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Mailer struct {
		BaseURL        string   `json:"base_url"`
		APIKey         string   `json:"api_key"`
		Sender         string   `json:"sender"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"mailer,omitempty"`

	Jobs struct {
		NotificationRetention Duration `json:"notification_retention"`
	} `json:"jobs,omitempty"`
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
		App: App{
			TokenSignKey:      jsonCfg.App.TokenSignKey,
			TokenIssuer:       jsonCfg.App.TokenIssuer,
			TokenDuration:     time.Duration(jsonCfg.App.TokenDuration),
			HashKey:           jsonCfg.App.HashKey,
			OTPTTL:            time.Duration(jsonCfg.App.OTPTTL),
			OTPResendCooldown: time.Duration(jsonCfg.App.OTPResendCooldown),
			OTPMaxAttempts:    jsonCfg.App.OTPMaxAttempts,
			CaptchaTTL:        time.Duration(jsonCfg.App.CaptchaTTL),
			DefaultPassword:   jsonCfg.App.DefaultPassword,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Mailer: Mailer{
			BaseURL:        jsonCfg.Mailer.BaseURL,
			APIKey:         jsonCfg.Mailer.APIKey,
			Sender:         jsonCfg.Mailer.Sender,
			RequestTimeout: time.Duration(jsonCfg.Mailer.RequestTimeout),
		},
		Jobs: Jobs{
			NotificationRetention: time.Duration(jsonCfg.Jobs.NotificationRetention),
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
