package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkoval/companyportal/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session cookie HMAC secret key
//	-r int      remember token validity, hours
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The duration
// flag is accepted as an integer in hours.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	rememberTokenValidityDuration := fs.Int("r", int(config.RememberTokenValidityDuration.Hours()), "remember_token_validity_duration (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RememberTokenValidityDuration = time.Duration(*rememberTokenValidityDuration) * time.Hour
}
