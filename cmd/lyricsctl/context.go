package main

import (
	"context"
	"strings"
	"sync"

	"github.com/wtusfo/song-and-singer/internal/console"
	"github.com/wtusfo/song-and-singer/internal/events"
)

type commandContext struct {
	configFlag *string
	serverFlag *string
	tokenFlag  *string

	configOnce sync.Once
	config     cliConfig
	configPath string
	configErr  error

	bus *events.Bus
}

func newCommandContext(configFlag, serverFlag, tokenFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
		tokenFlag:  tokenFlag,
		bus:        events.NewBus(),
	}
}

func (c *commandContext) ensureConfig() (cliConfig, error) {
	c.configOnce.Do(func() {
		c.config, c.configPath, c.configErr = loadCLIConfig(*c.configFlag)
		if c.configErr != nil {
			return
		}
		if v := strings.TrimSpace(*c.serverFlag); v != "" {
			c.config.ServerURL = v
		}
		if v := strings.TrimSpace(*c.tokenFlag); v != "" {
			c.config.Token = v
		}
	})
	return c.config, c.configErr
}

func (c *commandContext) client() (*console.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return console.NewClient(cfg.ServerURL, cfg.Token), nil
}

// adminSession fetches the session once per command and checks the role.
func (c *commandContext) adminSession(ctx context.Context, client *console.Client) (*console.Session, error) {
	session, err := console.NewSession(ctx, client)
	if err != nil {
		return nil, err
	}
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	return session, nil
}
