package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"recrate/internal/config"
	"recrate/internal/library"
	"recrate/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withLibrary opens the configured library database for the duration of fn.
func (c *commandContext) withLibrary(fn func(*config.Config, *library.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := library.Open(cfg.Paths.LibraryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// withLockedLibrary additionally takes the exclusive sidecar lock so two
// invocations cannot interleave writes to the same library.
func (c *commandContext) withLockedLibrary(fn func(*config.Config, *library.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.Paths.LibraryDB + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "library", "lock", fmt.Sprintf("acquire %s", lock.Path()), err)
	}
	if !locked {
		return services.Wrap(services.ErrPrecondition, "library", "lock",
			fmt.Sprintf("another recrate invocation holds %s", lock.Path()), nil)
	}
	defer lock.Unlock()

	store, err := library.Open(cfg.Paths.LibraryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
