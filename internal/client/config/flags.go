package config

import (
	"flag"
	"os"

	"github.com/vetsoap/vetsoap-go/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        base URL of the VetSOAP API
//	-auth string     base URL of the identity provider
//	-authkey string  identity provider API key
//	-d string        data directory (keystore, cache, audio files)
//	-dev             relax transport security for local development
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-auth", "-authkey", "-d", "-dev"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the VetSOAP API")
	fs.StringVar(&cfg.AuthBaseURL, "auth", cfg.AuthBaseURL, "base URL of the identity provider")
	fs.StringVar(&cfg.AuthAPIKey, "authkey", cfg.AuthAPIKey, "identity provider API key")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.BoolVar(&cfg.DevMode, "dev", cfg.DevMode, "relax transport security for development")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
