package cli

import (
	"strings"
	"sync"

	"github.com/mrlokans/lightbox/internal/config"
	"github.com/mrlokans/lightbox/internal/entrypoint"
	"github.com/mrlokans/lightbox/internal/logging"
)

type commandContext struct {
	configFlag *string
	version    string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, version string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		version:    version,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		logging.Init(cfg.Log.Level, cfg.Log.Pretty)
		c.config = cfg
	})
	return c.config, c.configErr
}

// withApp opens the catalog for the duration of fn.
func (c *commandContext) withApp(fn func(*entrypoint.App) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
