package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophident/internal/flagx"
	"github.com/dmitrijs2005/gophident/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations go through
// timex.Duration so "1h" and integer nanoseconds are both accepted.
// Pointer and nil-able fields distinguish "absent" from "zero".
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	Debug            *bool  `json:"debug"`
	LogLevel         string `json:"log_level"`
	Database         *struct {
		DSN             string          `json:"dsn"`
		PoolSize        int             `json:"pool_size"`
		MaxOverflow     *int            `json:"max_overflow"`
		ConnMaxLifetime *timex.Duration `json:"conn_max_lifetime"`
	} `json:"database"`
	JWT *struct {
		PrivateKey      string          `json:"private_key"`
		PublicKey       string          `json:"public_key"`
		Algorithm       string          `json:"algorithm"`
		AccessTokenTTL  *timex.Duration `json:"access_token_ttl"`
		RefreshTokenTTL *timex.Duration `json:"refresh_token_ttl"`
	} `json:"jwt"`
	Password *struct {
		Algorithm  string `json:"algorithm"`
		BcryptCost int    `json:"bcrypt_cost"`
	} `json:"password"`
	CORS *struct {
		Origins     []string `json:"origins"`
		Methods     []string `json:"methods"`
		Headers     []string `json:"headers"`
		Credentials *bool    `json:"credentials"`
	} `json:"cors"`
}

// parseJson overlays the JSON file given by -c/-config onto config.
// Without the flag nothing is loaded. Keys missing from the file keep
// their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.LogLevel, c.LogLevel)
	if c.Debug != nil {
		config.Debug = *c.Debug
	}

	if d := c.Database; d != nil {
		setString(&config.Database.DSN, d.DSN)
		if d.PoolSize > 0 {
			config.Database.PoolSize = d.PoolSize
		}
		if d.MaxOverflow != nil {
			config.Database.MaxOverflow = *d.MaxOverflow
		}
		if d.ConnMaxLifetime != nil {
			config.Database.ConnMaxLifetime = d.ConnMaxLifetime.Duration
		}
	}

	if j := c.JWT; j != nil {
		setString(&config.JWT.PrivateKeyPath, j.PrivateKey)
		setString(&config.JWT.PublicKeyPath, j.PublicKey)
		setString(&config.JWT.Algorithm, j.Algorithm)
		if j.AccessTokenTTL != nil {
			config.JWT.AccessTokenTTL = j.AccessTokenTTL.Duration
		}
		if j.RefreshTokenTTL != nil {
			config.JWT.RefreshTokenTTL = j.RefreshTokenTTL.Duration
		}
	}

	if p := c.Password; p != nil {
		setString(&config.Password.Algorithm, p.Algorithm)
		if p.BcryptCost > 0 {
			config.Password.BcryptCost = p.BcryptCost
		}
	}

	if cors := c.CORS; cors != nil {
		if cors.Origins != nil {
			config.CORS.Origins = cors.Origins
		}
		if cors.Methods != nil {
			config.CORS.Methods = cors.Methods
		}
		if cors.Headers != nil {
			config.CORS.Headers = cors.Headers
		}
		if cors.Credentials != nil {
			config.CORS.Credentials = *cors.Credentials
		}
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
