package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/Mal-back/cal-tracker/internal/flagx"
)

// parseFlags applies the command-line overrides.
//
//	-a string   HTTP bind address (e.g. ":8443")
//	-g string   gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-w string   static web folder
//	-t float    token lifetime in seconds, fractions allowed
//	-l string   log level
//	-dev-seed   create the demo1 user on startup
//
// Signing keys are deliberately not accepted on the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-w", "-t", "-l", "-dev-seed"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.WebFolder, "w", config.WebFolder, "static web folder")
	fs.Float64Var(&config.TokenDurationSecs, "t", config.TokenDurationSecs, "token lifetime (seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.DevSeed, "dev-seed", config.DevSeed, "seed the demo1 user")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: flags: %v", ErrMalformed, err)
	}
	return nil
}
