// Package main provides a command-line listener for zhook webhook events:
// it keeps a realtime connection open, prints incoming events and optionally
// appends them to a JSON-lines log file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/zhookteam/zhook-client/pkg/client"
	"github.com/zhookteam/zhook-client/pkg/eventlog"
)

// credentialFrom resolves the client key from the -key flag or the ZHOOK_KEY
// environment variable.
func credentialFrom(flagKey string) (string, error) {
	if flagKey != "" {
		return flagKey, nil
	}
	if key := os.Getenv("ZHOOK_KEY"); key != "" {
		log.Println("Using key from ZHOOK_KEY environment variable")
		return key, nil
	}
	return "", errors.New("client key required: pass -key or set ZHOOK_KEY")
}

func run() error {
	var (
		key            = flag.String("key", "", "zhook client key")
		realtimeURL    = flag.String("realtime-url", "", "realtime endpoint (default "+client.DefaultRealtimeURL+")")
		apiURL         = flag.String("api-url", "", "hook API endpoint")
		logLevel       = flag.String("log-level", "info", "log verbosity: silent, error, warn, info or debug")
		logFile        = flag.String("log-file", "", "append received events to this JSON-lines file")
		maxReconnects  = flag.Int("max-reconnects", 0, "maximum reconnection attempts (0 = default)")
		reconnectDelay = flag.Duration("reconnect-delay", 0, "base reconnection delay (0 = default)")
		noReconnect    = flag.Bool("no-reconnect", false, "disable automatic reconnection")
	)
	flag.Parse()

	credential, err := credentialFrom(*key)
	if err != nil {
		return err
	}

	c, err := client.New(credential, client.Options{
		RealtimeURL:          *realtimeURL,
		APIURL:               *apiURL,
		LogLevel:             *logLevel,
		MaxReconnectAttempts: *maxReconnects,
		ReconnectDelay:       *reconnectDelay,
		NoReconnect:          *noReconnect,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	var logWriter *eventlog.Writer
	if *logFile != "" {
		logWriter, err = eventlog.Open(*logFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := logWriter.Close(); err != nil {
				log.Printf("failed to close event log: %v", err)
			}
		}()
	}

	if err := c.OnConnected(func(conf client.Confirmation) {
		fmt.Printf("connected as %s: %s\n", conf.ClientID, conf.Message)
	}); err != nil {
		return err
	}
	if err := c.OnError(func(err error) {
		log.Printf("connection error: %v", err)
	}); err != nil {
		return err
	}
	if err := c.OnHookCalled(func(ev client.Event) {
		payload := strings.TrimSpace(string(ev.Payload))
		fmt.Printf("[%s] hook %s event %s: %s\n", ev.ReceivedAt.Format("15:04:05"), ev.HookID, ev.EventID, payload)
		if logWriter == nil {
			return
		}
		entry := eventlog.Entry{
			ProcessedAt: time.Now(),
			EventID:     ev.EventID,
			HookID:      ev.HookID,
			ReceivedAt:  ev.ReceivedAt,
			Payload:     ev.Payload,
		}
		if err := logWriter.Write(entry); err != nil {
			log.Printf("failed to log event %s: %v", ev.EventID, err)
		}
	}); err != nil {
		return err
	}

	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		return err
	}
	log.Println("listening for webhook events, Ctrl-C to exit")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	log.Println("interrupt")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
