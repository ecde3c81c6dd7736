package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/driven"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// readSubmission loads a submission from a YAML or JSON file.
func readSubmission(path string) (*models.Submission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}

	var sub models.Submission
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &sub)
	default:
		err = json.Unmarshal(raw, &sub)
	}
	if err != nil {
		return nil, fmt.Errorf("parse submission %s: %w", path, err)
	}
	return &sub, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		file    string
		userID  string
		premium bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one submission file and print the aggregate result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("please provide --file")
			}
			sub, err := readSubmission(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg, log, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			caller := driven.Caller{UserID: userID, Entitled: premium}
			if !premium && userID != "" {
				if caller.Entitled, err = a.store.IsEntitled(ctx, userID); err != nil {
					log.WithError(err).Warn("⚠️ Entitlement lookup failed")
				}
			}

			res := a.pipeline.RunAll(ctx, sub, caller)
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Println(string(data))
			} else {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				log.WithField("file", output).Info("✅ Result saved")
			}

			if res.Error != nil {
				log.Warn("⚠️ " + *res.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Submission file (YAML or JSON)")
	cmd.Flags().StringVar(&userID, "user", "", "User id the record is stored under")
	cmd.Flags().BoolVar(&premium, "premium", false, "Generate attack vectors and playbooks regardless of subscription")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of stdout")

	return cmd
}

func newGrantCmd() *cobra.Command {
	var (
		userID string
		status string
	)

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Set a user's subscription status in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("please provide --user")
			}
			ctx := cmd.Context()
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("DATABASE_URL is required to store subscriptions")
			}

			store, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetSubscription(ctx, userID, status); err != nil {
				return err
			}
			log.WithField("user_id", userID).WithField("status", status).Info("✅ Subscription updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&status, "status", models.SubscriptionActivePremium, "Subscription status")

	return cmd
}
