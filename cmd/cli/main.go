package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"kitreport/internal/provision"
	"kitreport/internal/session"
	"kitreport/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	global := flag.NewFlagSet("kitreport", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	cookie := global.String("cookie", os.Getenv("KITREPORT_SESSION_COOKIE"), "session cookie value")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "tags":
		handleTags(ctx, *baseURL, *cookie)
	case "task":
		if len(args) < 2 {
			log.Fatal("usage: kitreport task <task-id>")
		}
		handleTask(ctx, *baseURL, *cookie, args[1])
	case "health":
		handleHealth(ctx, *baseURL)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleTags(ctx context.Context, baseURL, cookie string) {
	src := provision.NewHTTPSource(baseURL)
	src.SessionCookie = cookie
	src.CookieName = session.CookieName

	catalog, err := src.FetchCatalog(ctx)
	if err != nil {
		log.Fatalf("fetch tags: %v", err)
	}

	fmt.Printf("%d tags\n", len(catalog.AllTags))
	for _, tag := range catalog.AllTags {
		fmt.Printf("  %-10s %s\n", tag.ID, tag.Name)
	}
	for _, name := range provision.TargetNames {
		id := catalog.Suggested[name]
		if id == nil {
			fmt.Printf("suggested %-10s (none)\n", name)
			continue
		}
		fmt.Printf("suggested %-10s %s\n", name, string(*id))
	}
}

func handleTask(ctx context.Context, baseURL, cookie, taskID string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/task_status/"+taskID, nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("status %d: %s", resp.StatusCode, string(body))
	}

	var ts models.TaskStatus
	if err := json.Unmarshal(body, &ts); err != nil {
		log.Fatalf("decode: %v", err)
	}

	fmt.Printf("task %s: %s (updated %s)\n", ts.TaskID, ts.Status, ts.UpdatedAt.Format(time.RFC3339))
	if ts.Error != "" {
		fmt.Printf("error: %s\n", ts.Error)
	}
	if len(ts.Data) > 0 {
		pretty, _ := json.MarshalIndent(json.RawMessage(ts.Data), "", "  ")
		fmt.Println(string(pretty))
	}
}

func handleHealth(ctx context.Context, baseURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
}

func printUsage() {
	fmt.Println(`kitreport CLI

usage:
  kitreport [-api URL] [-cookie VALUE] tags
  kitreport [-api URL] [-cookie VALUE] task <task-id>
  kitreport [-api URL] health`)
}
