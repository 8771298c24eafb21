package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(placementCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var provisionCmd = &cobra.Command{
	Use:   "provision <playerID> <name>",
	Short: "Provision a new player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"player_id":%q,"name":%q}`, args[0], args[1])
		return performPostRequest("/players", body)
	},
}

var placementCmd = &cobra.Command{
	Use:   "placement <playerID>",
	Short: "Show a player's tier placement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/placement?playerID=" + args[0])
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the conservative-rating leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List players with their placements",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <playerA> <playerB> <A_WIN|B_WIN|DRAW>",
	Short: "Submit a match result",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"player_a":%q,"player_b":%q,"outcome":%q}`, args[0], args[1], args[2])
		return performPostRequest("/submit-result", body)
	},
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <playerID> <strict|balanced|wide> <region>",
	Short: "Enqueue a player for matchmaking",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"player_id":%q,"preferences":{"skill_range":%q,"region":%q}}`, args[0], args[1], args[2])
		return performPostRequest("/search/enqueue", body)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <sessionID>",
	Short: "Poll a search session's status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/search/status?sessionID=" + args[0])
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <sessionID>",
	Short: "Cancel a search session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/search/cancel?sessionID="+args[0], "")
	},
}

var respondCmd = &cobra.Command{
	Use:   "respond <sessionID> <proposalID> <accept|decline>",
	Short: "Respond to a match proposal",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		accept := args[2] == "accept"
		body := fmt.Sprintf(`{"session_id":%q,"proposal_id":%q,"accept":%t}`, args[0], args[1], accept)
		return performPostRequest("/search/respond", body)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get lifetime counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/counters")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
