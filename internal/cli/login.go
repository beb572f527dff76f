package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wojciechkepka/notor/pkg/model"
	"golang.org/x/term"
)

const credentialsFileName = "credentials.json"

type credentials struct {
	Token string `json:"token"`
}

func newLoginCmd() *cobra.Command {
	var username string
	var pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a Notor server",
		Long:  "Log in to a Notor server and store the session token for later API calls.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				fmt.Print("Username: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if username == "" {
				return fmt.Errorf("username cannot be empty")
			}

			if pass == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				pass = string(raw)
			}

			resp, err := client.Post("/api/v1/auth", model.Credentials{Username: username, Pass: pass})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			var tok model.Token
			if err := json.Unmarshal(resp.Data, &tok); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			credPath, err := credentialsPath()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(credPath), 0700); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}

			creds := credentials{Token: tok.Token}
			data, err := json.MarshalIndent(creds, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal credentials: %w", err)
			}

			if err := os.WriteFile(credPath, data, 0600); err != nil {
				return fmt.Errorf("write credentials: %w", err)
			}

			fmt.Printf("Logged in as %s; token saved to %s\n", username, credPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Notor username (prompted if omitted)")
	cmd.Flags().StringVar(&pass, "pass", "", "Notor password (prompted if omitted)")
	return cmd
}

// credentialsPath returns the path to the credentials file (~/.notor/credentials.json).
func credentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".notor", credentialsFileName), nil
}

// LoadToken reads the stored session token, returning empty string if not found.
func LoadToken() string {
	p, err := credentialsPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.Token
}
