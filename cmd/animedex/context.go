package main

import (
	"strings"
	"sync"

	"animedex/internal/domain/config"
	"animedex/internal/logging"
	"animedex/internal/prefs"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the config file once, falling back to defaults when it
// does not exist, and configures logging from it.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			c.configErr = err
			return
		}
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		c.config = cfg
	})
	return c.config, c.configErr
}

// openPrefs opens the bbolt preference file. The caller closes the storage.
func (c *commandContext) openPrefs() (*prefs.Store, *prefs.BoltStorage, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := prefs.OpenBolt(prefs.OpenOptions{Path: cfg.Storage.Path})
	if err != nil {
		return nil, nil, err
	}
	return prefs.NewStore(st), st, nil
}
