package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/forgo/missions/api/internal/config"
	"github.com/forgo/missions/api/internal/repository"
	"github.com/forgo/missions/api/internal/service"
	"github.com/forgo/missions/api/internal/translate"
	"github.com/forgo/missions/api/pkg/jwt"
)

// globals are the persistent flags shared by every subcommand
type globals struct {
	driver     string
	sqlitePath string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "missionctl",
		Short:         "Missions API operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.driver, "driver", "", "database driver (surrealdb, sqlite); defaults to DB_DRIVER")
	root.PersistentFlags().StringVar(&g.sqlitePath, "sqlite-path", "", "sqlite database file; defaults to DB_SQLITE_PATH")
	root.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "output JSON")

	root.AddCommand(seedCmd(g))
	root.AddCommand(missionsCmd(g))
	root.AddCommand(tokenCmd(g))
	root.AddCommand(keysCmd())
	return root
}

// withStore opens the configured store for the duration of fn
func (g *globals) withStore(ctx context.Context, fn func(ctx context.Context, s *repository.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dbCfg := cfg.Database
	if g.driver != "" {
		dbCfg.Driver = g.driver
	}
	if g.sqlitePath != "" {
		dbCfg.SQLitePath = g.sqlitePath
	}

	store, err := repository.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(ctx, store)
}

func seedCmd(g *globals) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories, users, missions and likes from a YAML catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			catalog, err := service.LoadCatalog(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			return g.withStore(cmd.Context(), func(ctx context.Context, s *repository.Store) error {
				seeder := service.NewSeederService(service.SeederServiceConfig{
					MissionRepo:  s.Missions,
					UserRepo:     s.Users,
					CategoryRepo: s.Categories,
					LikeRepo:     s.Likes,
					Translator:   translate.MustDefault(),
				})
				res, err := seeder.Seed(ctx, catalog)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(cmd, res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d users, %d missions, %d likes\n",
					res.Categories, res.Users, res.Missions, res.Likes)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed/catalog.yaml", "path to catalog YAML")
	return cmd
}

func missionsCmd(g *globals) *cobra.Command {
	missions := &cobra.Command{Use: "missions", Short: "Inspect the mission catalog"}
	missions.AddCommand(missionsListCmd(g))
	return missions
}

func missionsListCmd(g *globals) *cobra.Command {
	var req service.ListMissionsRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withStore(cmd.Context(), func(ctx context.Context, s *repository.Store) error {
				svc := service.NewMissionService(service.MissionServiceConfig{
					MissionRepo:       s.Missions,
					LikeRepo:          s.Likes,
					ParticipationRepo: s.Participations,
					Translator:        translate.MustDefault(),
				})
				page, err := svc.ListMissions(ctx, "", req)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(cmd, page)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"ID", "Title", "Category", "Distance", "Reward", "Ends"})
				for _, m := range page.Missions {
					tw.AppendRow(table.Row{m.ID, m.Title, m.Category, m.Distance, m.CoinReward, m.EndDate})
				}
				tw.AppendFooter(table.Row{"", "", "", "", "total", page.Pagination.TotalCount})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Sort, "sort", "distance", "sort order (distance, popular, recent)")
	cmd.Flags().StringVar(&req.Category, "category", "", "category filter")
	cmd.Flags().IntVar(&req.Limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&req.Page, "page", 1, "page number")
	return cmd
}

func tokenCmd(g *globals) *cobra.Command {
	var (
		userID  string
		keyPath string
		expMins int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if keyPath == "" {
				keyPath = cfg.JWT.PrivateKeyPath
			}
			svc, err := jwt.NewService(jwt.Config{
				PrivateKeyPath: keyPath,
				Issuer:         cfg.JWT.Issuer,
				ExpirationMins: expMins,
			})
			if err != nil {
				return fmt.Errorf("%w (generate keys with: missionctl keys)", err)
			}
			token, err := svc.SignUser(userID)
			if err != nil {
				return err
			}

			if g.jsonOut {
				return printJSON(cmd, map[string]any{
					"access_token": token,
					"token_type":   "Bearer",
					"expires_in":   expMins * 60,
					"user_id":      userID,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User ID:  %s\n", userID)
			fmt.Fprintf(out, "Expires:  %s\n", time.Now().Add(time.Duration(expMins)*time.Minute).Format(time.RFC3339))
			fmt.Fprintln(out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "user-1", "public user id")
	cmd.Flags().StringVar(&keyPath, "key", "", "private key path; defaults to JWT_PRIVATE_KEY_PATH")
	cmd.Flags().IntVar(&expMins, "exp", 60, "expiration in minutes")
	return cmd
}

func keysCmd() *cobra.Command {
	var privatePath, publicPath string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate an RSA key pair for token signing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := jwt.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&privatePath, "private", "./keys/private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "./keys/public.pem", "public key output path")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
