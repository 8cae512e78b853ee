package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feedloom/feedloom/internal/seeder"
)

var (
	seedAddr     string
	seedUsers    int
	seedPosts    int
	seedComments int
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Feedloom CLI",
	Long: `feedctl is the command-line companion for the Feedloom server.

Seed a running instance with fake users, posts and comments for
development and load testing.`,
	Version: "0.1.0",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate a running server with fake data",
	Long: `Generate fake users, posts and comments through the public HTTP API.

Examples:
  # Seed a local server with the defaults
  feedctl seed

  # A bigger data set against a remote instance
  feedctl seed --addr http://feedloom.internal:8080 --users 50 --posts 10 --comments 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := seeder.New(seedAddr)
		return s.Run(cmd.Context(), seedUsers, seedPosts, seedComments)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedAddr, "addr", "http://localhost:8080", "base URL of the target server")
	seedCmd.Flags().IntVarP(&seedUsers, "users", "u", 10, "number of users to register")
	seedCmd.Flags().IntVarP(&seedPosts, "posts", "p", 3, "posts per user")
	seedCmd.Flags().IntVarP(&seedComments, "comments", "c", 2, "comments per post")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
