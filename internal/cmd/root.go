// Package cmd implements the stockroom command line client.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vbonduro/stockroom/internal/config"
	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/itemapi"
	"github.com/vbonduro/stockroom/internal/itemstore"
	"github.com/vbonduro/stockroom/internal/logging"
	"github.com/vbonduro/stockroom/internal/transport"
)

// cli holds what every command needs. It is built once per invocation in
// the root's PersistentPreRunE.
type cli struct {
	v      *viper.Viper
	logger *slog.Logger
	api    *itemapi.API
	store  *itemstore.Store
}

// NewRootCmd returns a fresh command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "stockroom",
		Short: "Manage inventory items",
		Long: `stockroom lists, creates and edits items held by the item service.

The service URL comes from --api-url, then the STOCKROOM_API_URL environment
variable, then api_url in the config file, then ` + config.DefaultAPIURL + `.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	pf := root.PersistentFlags()
	pf.String("api-url", "", "item service base URL")
	pf.StringP("config", "c", "", "config file (default is $HOME/.config/stockroom/config.yaml)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = c.v.BindPFlag("api_url", pf.Lookup("api-url"))
	_ = c.v.BindPFlag("config", pf.Lookup("config"))
	_ = c.v.BindPFlag("log_level", pf.Lookup("log-level"))

	root.AddCommand(
		c.newListCmd(),
		c.newShowCmd(),
		c.newCreateCmd(),
		c.newEditCmd(),
		c.newConfigCmd(),
	)
	return root
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := c.readConfig(); err != nil {
		return err
	}

	c.logger = logging.NewTo(cmd.ErrOrStderr(), c.v.GetString("log_level"), "text")

	t, err := transport.New(c.v.GetString("api_url"), transport.WithLogger(c.logger))
	if err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}
	c.api = itemapi.New(t)
	c.store = itemstore.New(c.api, c.logger)
	return nil
}

func (c *cli) readConfig() error {
	c.v.SetDefault("api_url", config.DefaultAPIURL)
	_ = c.v.BindEnv("api_url", config.APIURLEnv)
	_ = c.v.BindEnv("log_level", "LOG_LEVEL")

	if cfgFile := c.v.GetString("config"); cfgFile != "" {
		c.v.SetConfigFile(cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return nil
	}

	c.v.SetConfigName("config")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath("$HOME/.config/stockroom")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// ErrorMessage turns a command error into the line shown to the user.
func ErrorMessage(err error) string {
	var verr *itemapi.ValidationError
	var terr *transport.Error
	switch {
	case errors.Is(err, itemapi.ErrNotFound):
		return "Item not found"
	case errors.As(err, &verr):
		return verr.Message()
	case errors.Is(err, domain.ErrNameRequired):
		return "Item name is required"
	case errors.As(err, &terr) && terr.StatusCode == 0:
		return "Could not reach the item service: " + err.Error()
	}
	return err.Error()
}
