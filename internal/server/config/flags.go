package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophident/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-k", "-u", "-g", "-t", "-r", "-l", "-debug"}

// parseFlags overlays command-line flags onto config:
//
//	-a string   HTTP bind address (":8000")
//	-d string   PostgreSQL DSN
//	-k string   JWT private key PEM path
//	-u string   JWT public key PEM path
//	-g string   JWT algorithm (RS256, RS384, RS512)
//	-t int      access token TTL, minutes
//	-r int      refresh token TTL, minutes
//	-l string   log level
//	-debug      verbose logging
//
// Args are filtered with flagx.FilterArgs first so -c/-config and unknown
// flags do not break parsing.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("gophident", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.Database.DSN, "d", config.Database.DSN, "database DSN")
	fs.StringVar(&config.JWT.PrivateKeyPath, "k", config.JWT.PrivateKeyPath, "JWT private key path")
	fs.StringVar(&config.JWT.PublicKeyPath, "u", config.JWT.PublicKeyPath, "JWT public key path")
	fs.StringVar(&config.JWT.Algorithm, "g", config.JWT.Algorithm, "JWT signing algorithm")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "debug mode")

	accessTTL := fs.Int("t", int(config.JWT.AccessTokenTTL.Minutes()), "access token TTL (in minutes)")
	refreshTTL := fs.Int("r", int(config.JWT.RefreshTokenTTL.Minutes()), "refresh token TTL (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only explicit -t/-r override, so sub-minute TTLs from other layers survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.JWT.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
		case "r":
			config.JWT.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
		}
	})
	return nil
}
