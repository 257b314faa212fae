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
//	-upstream-url aggregator API base URL
//	-upstream-timeout single page fetch timeout (e.g., "15s")
//	-page-size deltas requested per page
//	-webhook-signing-key webhook signature verification key
//	-sweep-interval scheduled full-sweep interval (e.g., "15m")
//	-lock-ttl per-item sync lock lease duration
//	-request-timeout inbound request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var upstreamURL string
	var upstreamTimeout time.Duration
	var pageSize int
	var webhookSigningKey string
	var sweepInterval time.Duration
	var lockTTL time.Duration
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&upstreamURL, "upstream-url", "", "Aggregator API base URL")
	flag.DurationVar(&upstreamTimeout, "upstream-timeout", 0, "Page fetch timeout (e.g., 15s)")
	flag.IntVar(&pageSize, "page-size", 0, "Deltas requested per page")
	flag.StringVar(&webhookSigningKey, "webhook-signing-key", "", "Webhook signature verification key")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Scheduled sweep interval (e.g., 15m)")
	flag.DurationVar(&lockTTL, "lock-ttl", 0, "Per-item sync lock lease duration")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Inbound request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Upstream: Upstream{
			BaseURL:           upstreamURL,
			RequestTimeout:    upstreamTimeout,
			PageSize:          pageSize,
			WebhookSigningKey: webhookSigningKey,
		},
		Sync: Sync{
			SweepInterval: sweepInterval,
			LockTTL:       lockTTL,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect host")
		}
	}

	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return errors.New("incorrect port")
	}
	if port < 0 || port > 65535 {
		return errors.New("port out of range")
	}

	a.Host = host
	a.Port = port

	return nil
}
