// Package main provides a terminal client that logs in, opens the realtime
// socket and prints every notification the server pushes.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	reconnect := flag.Duration("reconnect", 3*time.Second, "Delay before reconnecting after a dropped socket (0 disables)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: notifywatch -email <email> -password <password> [-host localhost:8080]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &watcher{host: *host, out: os.Stdout}
	token, err := w.login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	log.Printf("✅ Logged in as %s", *email)

	for {
		err := w.watch(ctx, token)
		if ctx.Err() != nil {
			log.Println("🛑 Stopped")
			return
		}
		log.Printf("⚠️  Socket closed: %v", err)
		if *reconnect <= 0 {
			os.Exit(1)
		}
		select {
		case <-time.After(*reconnect):
		case <-ctx.Done():
			return
		}
	}
}
