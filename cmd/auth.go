package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voicekit/calagent/internal/google"
	"github.com/voicekit/calagent/internal/logging"
)

func newAuthCmd() *cobra.Command {
	var tokenFile string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Google Calendar authorization",
		Long: `Manage the stored Google Calendar credentials.

The login subcommand walks through the OAuth authorization-code flow once;
afterwards the server refreshes access tokens on its own. Credentials are
stored as a file readable only by the current user.`,
	}

	cmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Path to the stored OAuth token (default: user cache directory)")

	cmd.AddCommand(newAuthLoginCmd(&tokenFile))
	cmd.AddCommand(newAuthStatusCmd(&tokenFile))
	cmd.AddCommand(newAuthLogoutCmd(&tokenFile))

	return cmd
}

func newAuthLoginCmd(tokenFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login [authorization-code]",
		Short: "Authorize calendar access",
		Long: `Authorize calagent to access your Google Calendar.

Prints the authorization URL, then exchanges the code Google hands back for
tokens and stores them. The code can be passed as an argument or entered
interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := google.OAuthConfig()
			if err != nil {
				return err
			}

			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			if code == "" {
				cmd.Printf("Visit the following URL to authorize calendar access:\n\n  %s\n\n", google.AuthURL(conf))
				cmd.Print("Enter the authorization code: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			tok, err := google.Exchange(cmd.Context(), conf, code)
			if err != nil {
				return err
			}

			session, err := newSession(*tokenFile)
			if err != nil {
				return err
			}
			if err := session.Authorize(tok); err != nil {
				return err
			}

			cmd.Println("Authorization successful. Credentials stored.")
			return nil
		},
	}
}

func newAuthStatusCmd(tokenFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authorization status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := google.NewTokenStore(*tokenFile)
			if err != nil {
				return err
			}

			cmd.Printf("Token file: %s\n", store.Path())
			if !store.HasToken() {
				cmd.Println("Status:     not authorized (run \"calagent auth login\")")
				return nil
			}

			tok, err := store.Load()
			if err != nil {
				return err
			}
			cmd.Println("Status:     authorized")
			cmd.Printf("Access:     %s, expires %s\n", logging.SanitizeToken(tok.AccessToken), tok.Expiry.Format("2006-01-02 15:04:05 MST"))
			if tok.RefreshToken != "" {
				cmd.Println("Refresh:    available (tokens renew automatically)")
			} else {
				cmd.Println("Refresh:    missing (re-run \"calagent auth login\" when the access token expires)")
			}
			return nil
		},
	}
}

func newAuthLogoutCmd(tokenFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := google.NewTokenStore(*tokenFile)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			cmd.Println("Signed out. Stored credentials removed.")
			return nil
		},
	}
}

// newSession builds a session over the configured token store. The OAuth
// client config comes from the environment.
func newSession(tokenFile string) (*google.Session, error) {
	conf, err := google.OAuthConfig()
	if err != nil {
		return nil, err
	}
	store, err := google.NewTokenStore(tokenFile)
	if err != nil {
		return nil, err
	}
	return google.NewSession(conf, store), nil
}
