package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cocoonstack/cocoon-hwaddr/config"
)

// cli carries the state shared by all subcommands of one root command.
type cli struct {
	cfgFile string
	conf    *config.Config
	vp      *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{vp: viper.New()}
	cmd := &cobra.Command{
		Use:           "cocoon-hwaddr",
		Short:         "Derive stable locally administered MAC addresses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig(commandContext(cmd))
		},
	}

	cmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Int("pool-size", 0, "concurrent derivations (default: number of CPUs)")
	_ = c.vp.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = c.vp.BindPFlag("pool_size", cmd.PersistentFlags().Lookup("pool-size"))

	c.vp.SetEnvPrefix("HWADDR")
	c.vp.AutomaticEnv()

	cmd.AddCommand(
		newGenCmd(c),
		newCheckCmd(c),
		newVersionCmd(),
	)
	return cmd
}

func (c *cli) initConfig(ctx context.Context) error {
	c.conf = config.DefaultConfig()

	if c.cfgFile != "" {
		c.vp.SetConfigFile(c.cfgFile)
		if err := c.vp.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", c.cfgFile, err)
		}
	}

	if err := c.vp.Unmarshal(c.conf); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if c.conf.PoolSize <= 0 {
		c.conf.PoolSize = runtime.NumCPU()
	}
	if c.conf.Log.Level == "" {
		c.conf.Log.Level = config.DefaultConfig().Log.Level
	}
	if err := c.conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return log.SetupLog(ctx, c.conf.Log, "")
}

// Execute is the main entry point called from main.go.
func Execute() error {
	ctx, cancel := newCommandContext()
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}
