// Package main implements the omctl CLI for manual operations against
// the orgmatchd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernwerk/orgmatch/internal/matching"
)

var (
	// serverURL is the base URL for the orgmatchd HTTP server
	serverURL string
	// tenantID scopes the resolve request
	tenantID string
	// userID is attributed on created companies
	userID string
	// autoGlobal marks created companies as globally visible
	autoGlobal bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "omctl",
	Short: "CLI for orgmatchd HTTP server operations",
	Long: `omctl is a command-line interface for interacting with the orgmatchd HTTP server.
It provides commands for resolving candidate sets to companies and checking server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9290", "orgmatchd server URL")
	resolveCmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id (required)")
	resolveCmd.Flags().StringVar(&userID, "user", "", "user id attributed on created companies (required)")
	resolveCmd.Flags().BoolVar(&autoGlobal, "auto-global", false, "mark created companies as globally visible")
	_ = resolveCmd.MarkFlagRequired("tenant")
	_ = resolveCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(healthCmd)
}

// resolveCmd resolves a candidate variant list from a file or stdin
var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve a candidate set to a company",
	Long: `Resolve a JSON array of candidate variants against the tenant's company pool.

The input is the JSON "variants" array of a resolve request.

Examples:
  # Resolve variants from a file
  omctl resolve --tenant org-1 --user user-1 variants.json

  # Resolve from stdin
  cat variants.json | omctl resolve --tenant org-1 --user user-1 -

  # Use a different server
  omctl resolve --server http://localhost:8080 --tenant org-1 --user user-1 variants.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check orgmatchd server health",
	Long: `Check the health status of the orgmatchd HTTP server.

Examples:
  # Check health
  omctl health

  # Check health on a different server
  omctl health --server http://localhost:8080`,
	RunE: runHealth,
}

// ResolveRequest matches internal/http ResolveRequest
type ResolveRequest struct {
	TenantID   string                      `json:"tenantId"`
	UserID     string                      `json:"userId"`
	AutoGlobal bool                        `json:"autoGlobal,omitempty"`
	Variants   []matching.CandidateVariant `json:"variants"`
}

// ResolveResponse matches internal/http ResolveResponse
type ResolveResponse struct {
	Result *matching.MatchResult `json:"result"`
}

// HealthResponse matches internal/http HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

// runResolve handles the resolve command
func runResolve(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	var variants []matching.CandidateVariant
	if err := json.Unmarshal(content, &variants); err != nil {
		return fmt.Errorf("failed to parse variants: %w", err)
	}

	reqBody := ResolveRequest{
		TenantID:   tenantID,
		UserID:     userID,
		AutoGlobal: autoGlobal,
		Variants:   variants,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/resolve", serverURL)
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var resolveResp ResolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&resolveResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	out, err := json.MarshalIndent(resolveResp.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Println(string(out))

	if resolveResp.Result != nil && resolveResp.Result.WasCreated {
		fmt.Fprintf(os.Stderr, "[omctl] Created new company %s\n", resolveResp.Result.CompanyID)
	}

	return nil
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}
