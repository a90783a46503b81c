package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tunif "github.com/packetdrop/tunif/internal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"inet.af/netaddr"
)

const (
	tunifLogEnv   = "TUNIF_LOGLEVEL"
	tunnelOptions = "Tunnel Options"
)

func tunifRun(cCtx *cli.Context, logger *zap.Logger) error {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	sugar := logger.Sugar()

	var cfg tunif.Config
	if path := cCtx.String("config-file"); path != "" {
		var err error
		cfg, err = tunif.LoadConfig(path)
		if err != nil {
			return err
		}
	}

	// Flags override config file values.
	if cCtx.IsSet("mode") || cCtx.String("config-file") == "" {
		mode, err := tunif.ParseMode(cCtx.String("mode"))
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if cCtx.IsSet("remote-address") {
		ip, err := netaddr.ParseIP(cCtx.String("remote-address"))
		if err != nil {
			return err
		}
		cfg.RemoteAddress = ip
	}
	if cCtx.IsSet("mtu") {
		cfg.MTU = cCtx.Int("mtu")
	}
	cfg.Logger = sugar
	if cCtx.Bool("netlink") {
		cfg.Configurator = tunif.NewNetlinkConfigurator(sugar)
	}

	vi, err := tunif.Initialize(cfg)
	if err != nil {
		return err
	}
	sugar.Infof("TUN interface %s ready in %s mode", vi.Name(), cfg.Mode)

	// Dump inbound packets until the interface goes away.
	go func() {
		packet := make([]byte, 65535)
		for {
			n, err := vi.Receive(packet)
			if err != nil {
				if errors.Is(err, os.ErrClosed) || errors.Is(err, tunif.ErrNotReady) {
					return
				}
				sugar.Errorf("failed to read packet from TUN interface: %v", err)
				return
			}
			sugar.Debugf("received %d byte packet: % x", n, packet[:n])
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")
	return vi.Close()
}

func main() {
	// set the log level
	debug := os.Getenv(tunifLogEnv)
	var logger *zap.Logger
	var err error
	if debug != "" {
		logger, err = zap.NewDevelopment()
	} else {
		logCfg := zap.NewProductionConfig()
		logCfg.DisableStacktrace = true
		logger, err = logCfg.Build()
	}
	if err != nil {
		panic(err)
	}
	if debug != "" {
		logger.Info("Debug logging enabled")
	}

	// Overwrite usage to capitalize "Show"
	cli.HelpFlag.(*cli.BoolFlag).Usage = "Show help"
	app := &cli.App{
		Name:  "tunif",
		Usage: "Create a TUN interface and pump raw IP packets through it.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config-file",
				Value:    "",
				Usage:    "Tunnel interface configuration file",
				Category: tunnelOptions,
			},
			&cli.StringFlag{
				Name:     "mode",
				Value:    "subnet",
				Usage:    "Addressing mode: fixed-peer, remote-address or subnet",
				Category: tunnelOptions,
			},
			&cli.StringFlag{
				Name:     "remote-address",
				Value:    "",
				Usage:    "IPv4 address routed through the interface (remote-address mode)",
				Category: tunnelOptions,
			},
			&cli.IntFlag{
				Name:     "mtu",
				Value:    0,
				Usage:    "Interface MTU, 0 keeps the default",
				Category: tunnelOptions,
			},
			&cli.BoolFlag{
				Name:     "netlink",
				Value:    false,
				Usage:    "Configure the interface via rtnetlink instead of ip(8)",
				Category: tunnelOptions,
			},
		},
		Action: func(cCtx *cli.Context) error {
			return tunifRun(cCtx, logger)
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err.Error())
	}
}
