// Package commands implements the khiopsdriver-s3 smoke-test CLI's subcommands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KhiopsML/khiopsdriver-s3/config"
	"github.com/KhiopsML/khiopsdriver-s3/driver"
	"github.com/KhiopsML/khiopsdriver-s3/log"
)

// Version is injected at build time.
var Version = "dev" //nolint:gochecknoglobals

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "khiopsdriver-s3",
	Short: "Smoke-test CLI for the khiopsdriver-s3 object-store driver",
	Long:  `khiopsdriver-s3 exercises the driver's connect/exist/size/copy operations against a real bucket, reading configuration from the same environment variables the loaded-as-a-library driver uses (S3_BUCKET_NAME/GCS_BUCKET_NAME, S3_ENDPOINT, AWS_*).`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// --access-key/--secret-key let a caller override the AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY environment
		// variables 'config.Load' reads, without putting credentials in shell history via 'export'.
		if v, _ := cmd.Flags().GetString("access-key"); v != "" {
			if err := os.Setenv("AWS_ACCESS_KEY_ID", v); err != nil {
				return err
			}
		}

		if v, _ := cmd.Flags().GetString("secret-key"); v != "" {
			if err := os.Setenv("AWS_SECRET_ACCESS_KEY", v); err != nil {
				return err
			}
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("access-key", "", "AWS access key id (overrides AWS_ACCESS_KEY_ID)")
	rootCmd.PersistentFlags().String("secret-key", "", "AWS secret access key (overrides AWS_SECRET_ACCESS_KEY)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(cpCmd)
}

var versionCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "version",
	Short: "Print driver identity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()

		d, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Disconnect(ctx); err != nil {
				log.Warnf("disconnect: %v", err)
			}
		}()

		cmd.Printf("%s %s (scheme: %s)\n", driver.Name, Version, d.Scheme())

		return nil
	},
}

// connect loads configuration from the environment, builds the object-store client it identifies, and connects a
// fresh 'driver.Driver'. Callers must 'Disconnect' the returned driver when done.
func connect(ctx context.Context) (*driver.Driver, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log.SetLevel(cfg.LogLevel)

	client, err := cfg.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("building object-store client: %w", err)
	}

	d := driver.New()
	if err := d.Connect(client, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}

	return d, nil
}
