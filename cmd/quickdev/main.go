package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mal-back/cal-tracker/internal/quickdev"
)

func main() {
	var opts quickdev.Options
	flag.StringVar(&opts.BaseURL, "url", "http://localhost:8443", "service base url")
	flag.StringVar(&opts.GRPCAddr, "g", "", "grpc address, skipped when empty")
	flag.StringVar(&opts.Username, "u", "", "username, prompted when empty")
	flag.Parse()

	opts.In = bufio.NewReader(os.Stdin)
	opts.Out = os.Stdout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := quickdev.Run(ctx, opts); err != nil {
		log.Fatalf("%v", err)
	}
}
