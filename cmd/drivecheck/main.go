// Package main provides drivecheck, a CLI that verifies the Google Drive
// settings the server uses for document uploads.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Environment variables read when the matching flag is not given. They are
// the same keys the server reads.
const (
	envClientID        = "CADASTRO_DRIVE_CLIENT_ID"
	envAPIKey          = "CADASTRO_DRIVE_API_KEY"
	envFolderID        = "CADASTRO_DRIVE_FOLDER_ID"
	envCredentialsFile = "CADASTRO_DRIVE_CREDENTIALS_FILE"
)

var errFailed = errors.New("drive self-test failed")

func main() {
	if err := rootCmd(filestore.DriveOpener).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(opener func(*zap.Logger) filestore.Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "drivecheck",
		Short:         "Check the Google Drive document storage settings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(runCmd(opener))
	cmd.AddCommand(placeholdersCmd())
	return cmd
}

func runCmd(opener func(*zap.Logger) filestore.Opener) *cobra.Command {
	var (
		creds      filestore.Credentials
		outputJSON bool
		verbose    bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the connectivity self-test",
		Long: `Run the Drive connectivity self-test.

Steps, stopping at the first failure:
  credentials  every value is filled in
  client       a Drive client can be built
  list         files can be listed
  folder       the folder id names a folder
  permissions  the folder accepts uploads

Flags override the CADASTRO_DRIVE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds = withEnv(creds, os.LookupEnv)

			logger := zap.NewNop()
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("build logger: %w", err)
				}
				defer func() { _ = l.Sync() }()
				logger = l
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			rep := filestore.SelfTest(ctx, creds, opener(logger), logger)
			return report(cmd.OutOrStdout(), rep, outputJSON)
		},
	}

	cmd.Flags().StringVar(&creds.ClientID, "client-id", "", "OAuth client ID (env "+envClientID+")")
	cmd.Flags().StringVar(&creds.APIKey, "api-key", "", "API key (env "+envAPIKey+")")
	cmd.Flags().StringVar(&creds.FolderID, "folder-id", "", "Folder that receives documents (env "+envFolderID+")")
	cmd.Flags().StringVar(&creds.CredentialsFile, "credentials-file", "", "Service-account JSON file (env "+envCredentialsFile+")")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each step")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Deadline for the whole test")

	return cmd
}

func placeholdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "placeholders",
		Short: "List the example values treated as not configured",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range filestore.Placeholders() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		},
	}
}

// withEnv fills empty fields of creds from the environment.
func withEnv(creds filestore.Credentials, lookup func(string) (string, bool)) filestore.Credentials {
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	fill(&creds.ClientID, envClientID)
	fill(&creds.APIKey, envAPIKey)
	fill(&creds.FolderID, envFolderID)
	fill(&creds.CredentialsFile, envCredentialsFile)
	return creds
}

// report writes rep and returns errFailed when a step failed.
func report(w io.Writer, rep filestore.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		for _, s := range rep.Steps {
			mark := "FAIL"
			if s.OK {
				mark = "ok"
			}
			fmt.Fprintf(w, "%-4s  %-12s %s\n", mark, s.Name, s.Detail)
		}
		if rep.Passed {
			fmt.Fprintln(w, "\nDrive is ready for uploads.")
		}
	}
	if !rep.Passed {
		return errFailed
	}
	return nil
}
