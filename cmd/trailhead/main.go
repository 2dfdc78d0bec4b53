package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/trailhead/trailhead-go/client"
	"github.com/trailhead/trailhead-go/internal/config"
	"github.com/trailhead/trailhead-go/store"
	"github.com/trailhead/trailhead-go/store/keystore"
)

var serviceURL string
var stateDB string
var debug bool

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trailhead",
		Short: "Trailhead CLI for accounts, profiles and route planning",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				os.Setenv("TRAILHEAD_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{ServiceURL: client.DefaultBaseURL, StateDB: "trailhead-state.db"}
	}
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", cfg.ServiceURL, "Base URL of the Trailhead backend")
	rootCmd.PersistentFlags().StringVar(&stateDB, "state-db", cfg.StateDB, "Path of the local state database")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newVisibilityCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// newSession wires a gateway, the durable state database, and a session
// container for one command invocation.
func newSession() (*store.Session, func(), error) {
	ks, err := keystore.OpenSQLite(stateDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open state db: %w", err)
	}
	c := client.New(serviceURL)
	return store.NewSession(c, ks), func() { _ = ks.Close() }, nil
}

func newRegisterCmd() *cobra.Command {
	var username, password, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			resp, err := s.Register(ctx, username, password, email)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (user %s), session stored\n", username, resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := s.Login(ctx, username, password); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (user %s)\n", username, s.UserID())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			restored, err := s.Initialize(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("profile refresh failed during init")
			}
			if !restored {
				fmt.Println("No active session")
				return nil
			}
			s.Logout(ctx)
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session and profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			restored, err := s.Initialize(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("profile refresh failed during init")
			}
			if !restored {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("User: %s\n", s.UserID())
			if p := s.UserProfile(); p != nil {
				fmt.Printf("Username: %s\nEmail: %s\n", p.Username, p.Email)
			}
			if p := s.ProfileData(); p != nil {
				fmt.Printf("Display name: %s\n", p.DisplayName)
			}
			if s.IsLiveHiking() {
				fmt.Println("Live hiking: on")
			}
			return nil
		},
	}
}

func newPlanCmd() *cobra.Command {
	var query string
	var lat, lng float64
	var minMinutes int
	var avoidTolls, avoidHighways bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a route from a free-text query",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			if _, err := s.Initialize(ctx); err != nil {
				log.Warn().Err(err).Msg("profile refresh failed during init")
			}

			c := client.New(serviceURL)
			app := store.NewApp(c, store.WithTokenSource(s.SessionToken))
			if lat != 0 || lng != 0 {
				app.SetUserLocation(client.LatLng{Lat: lat, Lng: lng})
			}
			app.UpdatePrefs(store.PrefsPatch{
				AvoidTolls:     &avoidTolls,
				AvoidHighways:  &avoidHighways,
				MinHikeMinutes: &minMinutes,
			})

			start := time.Now()
			resp, err := app.PlanRoute(ctx, query)
			elapsed := time.Since(start)
			if err != nil {
				log.Error().Err(err).Str("query", query).Dur("elapsed", elapsed).Msg("plan failed")
				return err
			}

			log.Debug().Str("route_id", resp.Route.RouteID).Dur("elapsed", elapsed).Msg("plan completed")
			fmt.Printf("Route: %s (%s)\n", resp.Route.Name, resp.Route.RouteID)
			if resp.Summary != "" {
				fmt.Println(resp.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "What to plan, e.g. 'quiet trail near water' (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Current latitude (optional)")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Current longitude (optional)")
	cmd.Flags().IntVar(&minMinutes, "min-minutes", 30, "Minimum hike duration in minutes")
	cmd.Flags().BoolVar(&avoidTolls, "avoid-tolls", false, "Avoid toll roads")
	cmd.Flags().BoolVar(&avoidHighways, "avoid-highways", false, "Avoid highways")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func newVisibilityCmd() *cobra.Command {
	var live, stats, home bool
	var profile string

	cmd := &cobra.Command{
		Use:   "visibility",
		Short: "Update privacy settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if _, err := s.Initialize(ctx); err != nil {
				log.Warn().Err(err).Msg("profile refresh failed during init")
			}

			patch := store.VisibilityPatch{}
			if cmd.Flags().Changed("live") {
				patch.ShowLiveLocation = &live
			}
			if cmd.Flags().Changed("share-stats") {
				patch.ShareStats = &stats
			}
			if cmd.Flags().Changed("share-home") {
				patch.ShareHomeLocation = &home
			}
			if cmd.Flags().Changed("profile") {
				patch.ProfileVisibility = &profile
			}

			if err := s.UpdateVisibility(ctx, patch); err != nil {
				return err
			}
			v := s.Visibility()
			fmt.Printf("Visibility: live=%v profile=%s stats=%v home=%v\n",
				v.ShowLiveLocation, v.ProfileVisibility, v.ShareStats, v.ShareHomeLocation)
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Share live location")
	cmd.Flags().BoolVar(&stats, "share-stats", true, "Share stats")
	cmd.Flags().BoolVar(&home, "share-home", false, "Share home location")
	cmd.Flags().StringVar(&profile, "profile", "public", "Profile visibility (public/friends/private)")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the current user's hiking stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			restored, err := s.Initialize(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("profile refresh failed during init")
			}
			if !restored {
				return fmt.Errorf("not logged in")
			}

			stats, err := s.FetchUserStats(ctx)
			if err != nil {
				return err
			}
			if stats == nil {
				fmt.Println("No stats yet")
				return nil
			}
			fmt.Printf("Hikes: %d\nDistance: %.1f km\nElevation: %.0f m\n",
				stats.TotalHikes, stats.TotalDistanceKm, stats.TotalElevationM)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serviceURL)

			if wait <= 0 {
				if !c.Health(cmd.Context()) {
					return fmt.Errorf("backend unhealthy at %s", serviceURL)
				}
				fmt.Println("ok")
				return nil
			}

			// Poll until healthy or the wait budget runs out. The gateway
			// itself never retries; readiness waiting is a CLI concern.
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = wait
			err := backoff.Retry(func() error {
				if !c.Health(cmd.Context()) {
					return fmt.Errorf("backend unhealthy at %s", serviceURL)
				}
				return nil
			}, backoff.WithContext(bo, cmd.Context()))
			if err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling until healthy, up to this duration")

	return cmd
}
