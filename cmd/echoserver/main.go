package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orizon-lang/tsnet"
)

func main() {
	var (
		addr        string
		ipv6        bool
		idleTimeout time.Duration
		hexdump     bool
	)
	flag.StringVar(&addr, "addr", "9000", "listen endpoint (port, host:port, or [v6]:port)")
	flag.BoolVar(&ipv6, "ipv6", false, "enable the bracketed IPv6 literal grammar")
	flag.DurationVar(&idleTimeout, "idle-timeout", 0, "close connections idle longer than this (0 disables)")
	flag.BoolVar(&hexdump, "hexdump", false, "print a hex dump of every chunk sent or received")
	flag.Parse()

	opts := tsnet.Options{
		IPv6Enabled: ipv6,
		IdleTimeout: idleTimeout,
	}
	if hexdump {
		opts.Hexdump = tsnet.NewHexWriterSink(func(line string) {
			fmt.Fprintln(os.Stdout, line)
		})
	}

	srv := tsnet.NewServer(nil, echoHandler, opts)
	port := srv.Bind(addr)
	if port == 0 {
		fmt.Fprintln(os.Stderr, "bind failed:", addr)
		os.Exit(1)
	}
	fmt.Println("echoserver listening on port", port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for ctx.Err() == nil {
		srv.Poll(250)
	}
	srv.Free()
}

// echoHandler writes back whatever it receives and logs accept/close.
func echoHandler(conn *tsnet.Connection, event tsnet.Event, payload interface{}) int {
	switch event {
	case tsnet.EventAccept:
		fmt.Println("accept", conn.RemoteAddr())
	case tsnet.EventRecv:
		n := conn.Recv().Len()
		conn.Send(conn.Recv().Bytes(), n)
		conn.Recv().Remove(n)
	case tsnet.EventClose:
		fmt.Println("close", conn.RemoteAddr())
	}
	return 0
}
