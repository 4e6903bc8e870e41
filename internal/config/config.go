package config

import "time"

type Config interface {
	Port() string
	Debug() bool
	RootDir() string

	BufferSize() int

	FirstRequestTimeout() time.Duration
	KeepAliveTimeout() time.Duration
	EmptyReadLimit() int

	MaxRoutes() int
	MaxFolders() int
	MaxConnections() int

	ShowVersion() bool
}

// MustLoad resolves configuration from .env, the environment and then the
// command line arguments, in increasing priority.
func MustLoad(args []string) (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if err = cfg.parseFlags(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) Port() string                       { return c.port }
func (c *config) Debug() bool                        { return c.debug }
func (c *config) RootDir() string                    { return c.rootDir }
func (c *config) BufferSize() int                    { return c.bufferSize }
func (c *config) FirstRequestTimeout() time.Duration { return c.firstRequestTimeout }
func (c *config) KeepAliveTimeout() time.Duration    { return c.keepAliveTimeout }
func (c *config) EmptyReadLimit() int                { return c.emptyReadLimit }
func (c *config) MaxRoutes() int                     { return c.maxRoutes }
func (c *config) MaxFolders() int                    { return c.maxFolders }
func (c *config) MaxConnections() int                { return c.maxConnections }
func (c *config) ShowVersion() bool                  { return c.showVersion }
