package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/auth"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pettycash-cli",
		Short: "Petty-cash ledger CLI tool",
		Long:  `A command line interface for interacting with the petty-cash ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("PETTYCASH_TOKEN"), "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(alertsCmd(), pendingCmd(), summaryCmd(), consistencyCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List low-balance and never-reconciled alerts",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/alerts")
		},
	}
}

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List transactions awaiting approval",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/transactions/pending")
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <account-id>",
		Short: "Show an account's activity summary",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0] + "/summary")
		},
	}
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency <account-id>",
		Short: "Replay an account's ledger and compare against the stored balance",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency(args[0])
		},
		Args: cobra.ExactArgs(1),
	}
}

func tokenCmd() *cobra.Command {
	var (
		userID   string
		role     string
		secret   string
		lifetime time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for API access",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := auth.NewJWTManager(secret, lifetime)
			signed, err := manager.Generate(domain.Principal{ID: userID, Role: domain.Role(role)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Principal ID to embed in the token")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCashier), "Principal role (admin, manager, cashier)")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().DurationVar(&lifetime, "lifetime", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func checkConsistency(accountID string) {
	body, status, err := request("/api/v1/accounts/" + accountID + "/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
	} else {
		fmt.Println("Consistency check FAILED: stored balance diverges from ledger replay")
	}
	printJSON(result)
}

func get(path string) {
	body, status, err := request(path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, truncate(string(body), 500))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func request(path string) ([]byte, int, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
