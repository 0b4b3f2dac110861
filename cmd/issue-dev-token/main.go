package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"transparency-backend/auth"
	"transparency-backend/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	subject string
	ttl     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "issue-dev-token",
	Short: "Mint an HS256 bearer token for local development",
	Long: `Signs a token with JWT_SECRET so the API can be exercised without the identity
provider. The server only accepts it when JWT_PUBLIC is unset.`,
	Args: cobra.NoArgs,
	RunE: runIssue,
}

func init() {
	rootCmd.Flags().StringVar(&subject, "sub", "", "user id to put in the token (random when empty)")
	rootCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
}

func runIssue(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if cfg.Auth.PublicKey != "" {
		fmt.Fprintln(os.Stderr, "Warning: JWT_PUBLIC is set, the server will reject HS256 tokens")
	}

	if subject == "" {
		subject = uuid.NewString()
	}

	token, err := auth.IssueHS256(cfg.Auth.Secret, subject, ttl, time.Now())
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Token for user %s, valid for %s\n", subject, ttl)
	fmt.Println(token)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
