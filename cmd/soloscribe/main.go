// Package main runs the soloscribe session tracker CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	solocmd "github.com/louisbranch/soloscribe/internal/cmd/soloscribe"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

func main() {
	log.SetPrefix("[SOLOSCRIBE] ")
	cfg, args, err := solocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := solocmd.Run(ctx, cfg, args, os.Stdout); err != nil {
		log.Print(err)
		os.Exit(apperrors.GetKind(err).ExitCode())
	}
}
