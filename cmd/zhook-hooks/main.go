// Package main provides command-line management of zhook webhook
// subscriptions: list, inspect, create, update and delete hooks.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/zhookteam/zhook-client/pkg/api"
)

func splitEvents(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func run() error {
	var (
		key     = flag.String("key", os.Getenv("ZHOOK_KEY"), "zhook client key (or ZHOOK_KEY)")
		apiURL  = flag.String("api-url", "", "hook API endpoint (default "+api.DefaultBaseURL+")")
		retries = flag.Int("retries", 1, "attempts per API call, including the first")
		list    = flag.Bool("list", false, "list all hooks")
		get     = flag.String("get", "", "fetch one hook by id")
		create  = flag.Bool("create", false, "create a hook from -name/-url/-events")
		update  = flag.String("update", "", "update the hook with this id from -name/-url/-events/-status")
		del     = flag.String("delete", "", "delete the hook with this id")
		name    = flag.String("name", "", "hook name")
		hookURL = flag.String("url", "", "hook target URL")
		events  = flag.String("events", "", "comma-separated event name filter")
		status  = flag.String("status", "", "hook status: active, paused or disabled")
		timeout = flag.Duration("timeout", 30*time.Second, "overall command timeout")
	)
	flag.Parse()

	if *key == "" {
		return errors.New("client key required: pass -key or set ZHOOK_KEY")
	}

	c := api.NewClient(*key, api.Options{
		BaseURL:     *apiURL,
		MaxAttempts: *retries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *list:
		hooks, err := c.Hooks(ctx)
		if err != nil {
			return err
		}
		return printJSON(hooks)

	case *get != "":
		hook, err := c.Hook(ctx, *get)
		if err != nil {
			return err
		}
		return printJSON(hook)

	case *create:
		hook, err := c.CreateHook(ctx, api.HookConfig{
			Name:   *name,
			URL:    *hookURL,
			Events: splitEvents(*events),
		})
		if err != nil {
			return err
		}
		return printJSON(hook)

	case *update != "":
		var upd api.HookUpdate
		if *name != "" {
			upd.Name = name
		}
		if *hookURL != "" {
			upd.URL = hookURL
		}
		if *events != "" {
			upd.Events = splitEvents(*events)
		}
		if *status != "" {
			s := api.HookStatus(*status)
			upd.Status = &s
		}
		hook, err := c.UpdateHook(ctx, *update, upd)
		if err != nil {
			return err
		}
		return printJSON(hook)

	case *del != "":
		if err := c.DeleteHook(ctx, *del); err != nil {
			return err
		}
		fmt.Printf("deleted hook %s\n", *del)
		return nil

	default:
		flag.Usage()
		return errors.New("one of -list, -get, -create, -update or -delete is required")
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
