package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FleetPro/service-dashboard/internal/application"
)

const defaultServer = "http://localhost:8080"

type options struct {
	server  string
	noColor bool
	timeout time.Duration
}

// NewRootCommand builds the fleetctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Terminal client for the FleetPro dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	server := os.Getenv("FLEETCTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "dashboard API base URL")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall command timeout")

	routes := &cobra.Command{Use: "routes", Short: "Browse the route catalog"}
	routes.AddCommand(newRoutesListCommand(opts), newRoutesSearchCommand(opts))

	sos := &cobra.Command{Use: "sos", Short: "Inspect SOS alerts"}
	sos.AddCommand(newSOSListCommand(opts))

	root.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		routes,
		newAskCommand(opts),
		newChatCommand(opts),
		sos,
	)
	return root
}

func (o *options) authedClient() (*Client, error) {
	token, err := LoadToken()
	if err != nil {
		return nil, err
	}
	return NewClient(o.server, token), nil
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newLoginCommand(opts *options) *cobra.Command {
	var creds application.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var result application.LoginResult
			if _, err := NewClient(opts.server, "").Do(ctx, http.MethodPost, "/api/v1/auth/login", creds, &result); err != nil {
				return err
			}
			if err := SaveToken(result.AccessToken); err != nil {
				return err
			}
			_, _ = successColor.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", result.Session.Email, result.Session.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&creds.Role, "role", "r", "admin", "role: admin or super-admin")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.authedClient()
			if errors.Is(err, ErrNotLoggedIn) {
				return nil
			}
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			if _, err := client.Do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil); err != nil {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
					return err
				}
			}
			if err := ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newRoutesListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every route",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var routes []application.RouteDTO
			if _, err := client.Do(ctx, http.MethodGet, "/api/v1/routes", nil, &routes); err != nil {
				return err
			}
			printRoutes(cmd.OutOrStdout(), routes)
			return nil
		},
	}
}

func newRoutesSearchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Filter routes by a free-text query without waiting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var res application.RouteSearchDTO
			path := "/api/v1/routes/search?q=" + url.QueryEscape(strings.Join(args, " "))
			if _, err := client.Do(ctx, http.MethodGet, path, nil, &res); err != nil {
				return err
			}
			if len(res.Tags) > 0 {
				_, _ = dimColor.Fprintf(cmd.OutOrStdout(), "filters: %s\n", strings.Join(res.Tags, ", "))
			}
			printRoutes(cmd.OutOrStdout(), res.Results)
			return nil
		},
	}
}

func newAskCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Ask the smart route assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var snap application.GateSnapshot
			req := application.RouteQueryRequest{Query: strings.Join(args, " ")}
			if _, err := client.Do(ctx, http.MethodPost, "/api/v1/assistant/route-queries", req, &snap); err != nil {
				return err
			}
			if snap.State == application.GateIdle {
				_, _ = warnColor.Fprintln(cmd.OutOrStdout(), "enter a query to search routes")
				return nil
			}

			s := newSpinner(cmd.ErrOrStderr(), "finding routes...")
			s.Start()
			for snap.Loading {
				if _, err := client.Do(ctx, http.MethodGet, "/api/v1/assistant/route-queries/current?wait=true", nil, &snap); err != nil {
					s.Stop()
					return err
				}
			}
			s.Stop()

			if len(snap.Tags) > 0 {
				_, _ = dimColor.Fprintf(cmd.OutOrStdout(), "filters: %s\n", strings.Join(snap.Tags, ", "))
			}
			printRoutes(cmd.OutOrStdout(), snap.Results)
			return nil
		},
	}
}

func newChatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to the AI assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			s := newSpinner(cmd.ErrOrStderr(), "assistant is typing...")
			s.Start()
			var reply application.ChatReplyDTO
			_, err = client.Do(ctx, http.MethodPost, "/api/v1/assistant/chat", application.ChatRequest{Message: strings.Join(args, " ")}, &reply)
			s.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply.Reply)
			return nil
		},
	}
}

func newSOSListCommand(opts *options) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List SOS alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			path := "/api/v1/sos-alerts?limit=100"
			if status != "" {
				path += "&status=" + url.QueryEscape(status)
			}
			var alerts []application.SOSAlertDTO
			if _, err := client.Do(ctx, http.MethodGet, path, nil, &alerts); err != nil {
				return err
			}
			printAlerts(cmd.OutOrStdout(), alerts)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: open, acknowledged or resolved")
	return cmd
}
