package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	defaultBufferSize     = 8192
	minBufferSize         = 1024
	maxBufferSize         = 1 << 20
	defaultFirstTimeout   = 3 * time.Second
	defaultKeepAlive      = 8 * time.Second
	defaultEmptyReadLimit = 32
	defaultTableSize      = 50
)

type config struct {
	port    string
	debug   bool
	rootDir string

	bufferSize int

	firstRequestTimeout time.Duration
	keepAliveTimeout    time.Duration
	emptyReadLimit      int

	maxRoutes      int
	maxFolders     int
	maxConnections int

	showVersion bool
}

func parse() (*config, error) {
	port := getenv("PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, err
	}

	return &config{
		port:                port,
		debug:               getenvBool("DEBUG", false),
		rootDir:             getenv("ROOT_DIR", "."),
		bufferSize:          parseBufferSize(),
		firstRequestTimeout: getenvDuration("FIRST_REQUEST_TIMEOUT", defaultFirstTimeout),
		keepAliveTimeout:    getenvDuration("KEEPALIVE_TIMEOUT", defaultKeepAlive),
		emptyReadLimit:      getenvInt("EMPTY_READ_LIMIT", defaultEmptyReadLimit, 1),
		maxRoutes:           getenvInt("MAX_ROUTES", defaultTableSize, 0),
		maxFolders:          getenvInt("MAX_FOLDERS", defaultTableSize, 0),
		maxConnections:      getenvInt("MAX_CONNECTIONS", 0, 0),
	}, nil
}

func (c *config) parseFlags(args []string) error {
	fs := pflag.NewFlagSet("uniquehttpd", pflag.ContinueOnError)
	fs.StringVarP(&c.port, "port", "p", c.port, "TCP port to listen on")
	fs.BoolVarP(&c.debug, "debug", "d", c.debug, "enable debug output")
	fs.StringVarP(&c.rootDir, "root", "r", c.rootDir, "directory folder paths are served from")
	fs.BoolVarP(&c.showVersion, "version", "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	return validatePort(c.port)
}

func validatePort(port string) error {
	n, err := strconv.ParseUint(port, 10, 16)
	if err != nil || n == 0 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func parseBufferSize() int {
	raw := getenv("BUFFER_SIZE", strconv.Itoa(defaultBufferSize))
	size, err := strconv.Atoi(raw)
	if err != nil || size < minBufferSize || size > maxBufferSize {
		log.Printf("Invalid BUFFER_SIZE, falling back to %d", defaultBufferSize)
		return defaultBufferSize
	}
	return size
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}

func getenvInt(key string, def, min int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < min {
		log.Printf("Invalid %s, falling back to %d", key, def)
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s, falling back to %s", key, def)
		return def
	}
	return d
}
