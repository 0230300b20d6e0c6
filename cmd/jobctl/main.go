// Command jobctl talks to the job-portal API from a terminal: it signs in,
// inspects session tokens and manages job postings.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobportal-web/internal/config"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/portalapi"
	"jobportal-web/internal/session"
	"jobportal-web/pkg/models"
)

const version = "1.0.0"

type globals struct {
	configPath string
	baseURL    string
	token      string
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:           "jobctl",
		Short:         "Job portal API client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "configs/config.yaml", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.baseURL, "api", "", "API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&g.token, "token", os.Getenv("JOBCTL_TOKEN"), "Bearer token (default $JOBCTL_TOKEN)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "jobctl version %s\n", version)
			},
		},
		decodeCmd(g),
		loginCmd(g),
		jobsCmd(g),
		usersCmd(g),
	)

	return cmd
}

// client builds an API client from the config file and flags
func (g *globals) client() (*portalapi.Client, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if g.baseURL != "" {
		cfg.API.BaseURL = g.baseURL
	}

	logger := logging.NewMultiLogger()
	logger.SetLevel(logging.ParseLogLevel(g.logLevel))
	return portalapi.NewClient(cfg, logger), nil
}

func (g *globals) requireToken() (string, error) {
	if g.token == "" {
		return "", fmt.Errorf("a token is required: pass --token or set JOBCTL_TOKEN")
	}
	return g.token, nil
}

type decodedToken struct {
	UserID    int64      `json:"user_id"`
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ExpiresIn string     `json:"expires_in,omitempty"`
}

func decodeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [token]",
		Short: "Print the identity carried by a session token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := g.token
			if len(args) == 1 {
				token = args[0]
			}

			claims, ok := session.Decode(token)
			if !ok {
				return fmt.Errorf("token could not be decoded")
			}

			out := decodedToken{UserID: claims.UserID, Role: string(claims.Role)}
			if claims.ExpiresAt != nil {
				exp := claims.ExpiresAt.Time
				out.ExpiresAt = &exp
				out.ExpiresIn = claims.ExpiresIn(time.Now()).Round(time.Second).String()
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func loginCmd(g *globals) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}

			result, err := client.SignIn(cmd.Context(), models.SignInRequest{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("sign in failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func usersCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect portal accounts (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every account",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := g.requireToken()
			if err != nil {
				return err
			}
			client, err := g.client()
			if err != nil {
				return err
			}

			users, err := client.ListUsers(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	})

	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
