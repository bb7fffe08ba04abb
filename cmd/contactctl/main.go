package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aradsms/contactbook/internal/contact_service/adapters/cli"
	"github.com/aradsms/contactbook/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("contactctl")
	if err != nil {
		fmt.Fprintln(os.Stderr, "contactctl: failed to load configuration:", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(cfg, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "contactctl:", err)
		stop()
		os.Exit(1)
	}
}
