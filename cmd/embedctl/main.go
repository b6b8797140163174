// Package main implements the embedctl CLI for manual operations against
// the embedrelay HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the embedrelay HTTP server
	serverURL string
	// dimensions is the requested output dimensionality (0 = server default)
	dimensions int
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "embedctl",
	Short: "CLI for embedrelay HTTP server operations",
	Long: `embedctl is a command-line interface for interacting with the embedrelay
HTTP server. It provides commands for generating embeddings and checking
server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9190", "embedrelay server URL")
	embedCmd.Flags().IntVar(&dimensions, "dimensions", 0, "target dimensions (0 uses the server default)")
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(healthCmd)
}

// embedCmd generates an embedding for a file or stdin
var embedCmd = &cobra.Command{
	Use:   "embed [file]",
	Short: "Generate an embedding for a file or stdin",
	Long: `Generate an embedding for a file or stdin using the embedrelay server.

Examples:
  # Embed a file
  embedctl embed notes.txt

  # Embed from stdin
  echo "hello world" | embedctl embed -

  # Request a specific dimensionality
  embedctl embed --dimensions 256 notes.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmbed,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check embedrelay server health",
	RunE:  runHealth,
}

// EmbedRequest matches internal/httpapi/server.go EmbedRequest
type EmbedRequest struct {
	Text             string `json:"text"`
	TargetDimensions int    `json:"target_dimensions"`
}

// EmbedResponse matches internal/httpapi/server.go EmbedResponse
type EmbedResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

// HealthResponse matches internal/httpapi/server.go HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

// runEmbed handles the embed command
func runEmbed(cmd *cobra.Command, args []string) error {
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

	if len(content) == 0 {
		return fmt.Errorf("no text to embed")
	}

	reqBody := EmbedRequest{
		Text:             string(content),
		TargetDimensions: dimensions,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(serverURL+"/api/v1/embed", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	out, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, _ []string) error {
	resp, err := http.Get(serverURL + "/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var parsed HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "server status: %s\n", parsed.Status)
	return nil
}
