// scripts/gcal-auth/main.go
//
// Run once on a workstation to authorize Google Calendar access for an OAuth
// Desktop App credentials file and write token.json next to it.
//
// Usage:
//   go run scripts/gcal-auth/main.go [google-credentials.json] [token path]
//
// The service then mirrors dated tasks into the calendar when
// google_calendar.credentials_path points at the same credentials file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"notion-task-intake/pkg/gcalendar"
)

func main() {
	credsPath := "google-credentials.json"
	if len(os.Args) > 1 {
		credsPath = os.Args[1]
	}
	tokenPath := filepath.Join(filepath.Dir(credsPath), gcalendar.TokenFileName)
	if len(os.Args) > 2 {
		tokenPath = os.Args[2]
	}

	if err := run(context.Background(), credsPath, tokenPath); err != nil {
		fmt.Fprintln(os.Stderr, "gcal-auth:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, credsPath, tokenPath string) error {
	data, err := os.ReadFile(credsPath)
	if err != nil {
		return fmt.Errorf("read credentials file %q: %w", credsPath, err)
	}

	config, err := google.ConfigFromJSON(data, gcalendar.Scope)
	if err != nil {
		return fmt.Errorf("parse credentials (expected an OAuth Desktop App file): %w", err)
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Println("=================================================================")
	fmt.Println("STEP 1: open this URL in a browser and sign in:")
	fmt.Println()
	fmt.Println(authURL)
	fmt.Println()
	fmt.Println("=================================================================")
	fmt.Print("STEP 2: paste the authorization code and press Enter: ")

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	f, err := os.OpenFile(tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", tokenPath, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write %s: %w", tokenPath, err)
	}

	fmt.Println()
	fmt.Printf("Token saved to %s. Restart the service to enable calendar mirroring.\n", tokenPath)
	return nil
}
