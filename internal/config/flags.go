package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-hash-key captcha answer hash key
//	-mailer-base-url mail gateway base URL
//	-mailer-api-key mail gateway API key
//	-mailer-sender OTP mail sender address
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var hashKey string
	var mailerBaseURL string
	var mailerAPIKey string
	var mailerSender string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&hashKey, "hash-key", "", "Captcha answer hash key")
	flag.StringVar(&mailerBaseURL, "mailer-base-url", "", "Mail gateway base URL")
	flag.StringVar(&mailerAPIKey, "mailer-api-key", "", "Mail gateway API key")
	flag.StringVar(&mailerSender, "mailer-sender", "", "OTP mail sender address")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			HashKey:       hashKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Mailer: Mailer{
			BaseURL: mailerBaseURL,
			APIKey:  mailerAPIKey,
			Sender:  mailerSender,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String renders the canonical host:port form. An unset address renders as
// the empty string so the merge step can prefer other sources.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses a host:port pair. The host must be "localhost" or a literal
// IP address and the port must be a positive integer.
func (a *NetAddress) Set(s string) error {
	host, portPart, found := strings.Cut(s, ":")
	if !found || strings.Contains(portPart, ":") {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portPart)
	if err != nil {
		return err
	}
	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
