package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leli-rentals/leli-assist/app/core"
	"github.com/leli-rentals/leli-assist/app/logic/v1/process"
	"github.com/leli-rentals/leli-assist/pkg/types"
	"github.com/leli-rentals/leli-assist/pkg/utils"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "assistant api service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	process.NewProcess(app).Start()
	serve(app)

	return nil
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "background jobs only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	process.NewProcess(app).Start()
	fmt.Println("Process starting...")
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
	return nil
}

func NewSweepCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the verification deadline sweep once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSweep(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func NewTokenCommand() *cobra.Command {
	opts := &Options{}
	var (
		userID string
		role   string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
			token := types.AccessToken{
				UserID:    userID,
				Token:     utils.RandomStr(64),
				Role:      role,
				CreatedAt: time.Now().Unix(),
				ExpiresAt: time.Now().AddDate(0, 0, days).Unix(),
				Info:      "issued by cli",
			}
			if err := app.Store().AccessTokenStore().Create(context.Background(), token); err != nil {
				return err
			}
			fmt.Println(token.Token)
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&role, "role", types.TOKEN_ROLE_USER, "token role")
	cmd.Flags().IntVar(&days, "days", 365, "days until the token expires")
	cmd.MarkFlagRequired("user")
	return cmd
}

func RunSweep(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	sweep := process.NewSuspensionSweep(app.Store().AccountStore(), app.Store().AccessTokenStore(), app.Srv().Mailer(), app.Cfg().Sweep.PageSize)
	stats := sweep.Run(context.Background(), time.Now())
	fmt.Printf("checked=%d warned=%d suspended=%d\n", stats.Checked, stats.Warned, stats.Suspended)
	return nil
}
