package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"sealpost/internal/app"
	"sealpost/internal/config"
	"sealpost/internal/sealpost"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newApp reads the config and creates a SealApp. The caller must defer app.Close().
func newApp() (*app.SealApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewSealApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassword prompts for a password without echoing it. Falls back to the
// --password flag value when set (for scripting).
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

var rootCmd = &cobra.Command{
	Use:   "sealpost",
	Short: "Encrypt files and schedule their delivery by email",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		fmt.Printf("Jobs:       %s\n", cfg.Jobs.Type)
		fmt.Printf("Ledger:     %s (%s)\n", cfg.Ledger.Type, cfg.Ledger.Path)
		fmt.Printf("Artifacts:  %s\n", cfg.Artifacts.Type)
		fmt.Printf("Mail:       %s (%s:%d)\n", cfg.Mail.Type, cfg.Mail.Host, cfg.Mail.Port)
		return nil
	},
}

// schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule FILE",
	Short: "Encrypt a file and schedule its delivery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipient, _ := cmd.Flags().GetString("to")
		at, _ := cmd.Flags().GetString("at")
		wait, _ := cmd.Flags().GetBool("wait")

		sendAt, err := time.ParseInLocation("2006-01-02 15:04:05", at, time.Local)
		if err != nil {
			return fmt.Errorf("parsing --at (want YYYY-MM-DD HH:MM:SS): %w", err)
		}

		password, err := readPassword(cmd, "Encryption password: ")
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		job, err := a.ScheduleFile(absPath, password, recipient, sendAt)
		if err != nil {
			return err
		}

		fmt.Printf("Job %s scheduled: %s -> %s at %s\n",
			job.ID, job.FileName, job.Recipient,
			job.ScheduledTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Ledger hash: %s\n", job.FileHash)

		if wait {
			final, err := a.Wait(cmd.Context(), job.ID)
			if err != nil {
				return fmt.Errorf("waiting for delivery: %w", err)
			}
			fmt.Printf("Job %s finished: %s\n", final.ID, final.Status)
			if final.Status == sealpost.StatusFailed {
				return fmt.Errorf("delivery failed: %s", final.Error)
			}
		}
		return nil
	},
}

// decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt ARTIFACT",
	Short: "Decrypt a stored artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		password, err := readPassword(cmd, "Decryption password: ")
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		plaintext, err := a.DecryptArtifact(args[0], password)
		if err != nil {
			if errors.Is(err, sealpost.ErrDecryptionFailed) {
				return fmt.Errorf("decryption failed: wrong password or corrupted data")
			}
			return err
		}

		if out == "" || out == "-" {
			_, err = os.Stdout.Write(plaintext)
			return err
		}
		if err := os.WriteFile(out, plaintext, 0600); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Decrypted to %s (%d bytes)\n", out, len(plaintext))
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status JOB_ID",
	Short: "View a job's status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		job, err := a.Status(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Job:       %s\n", job.ID)
		fmt.Printf("File:      %s\n", job.FileName)
		fmt.Printf("Recipient: %s\n", job.Recipient)
		fmt.Printf("Scheduled: %s\n", job.ScheduledTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Status:    %s\n", job.Status)
		if job.SentTime != nil {
			fmt.Printf("Sent:      %s\n", job.SentTime.Format("2006-01-02 15:04:05"))
		}
		if job.Error != "" {
			fmt.Printf("Error:     %s\n", job.Error)
		}
		if job.CancelReason != "" {
			fmt.Printf("Reason:    %s\n", job.CancelReason)
		}
		return nil
	},
}

// cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel JOB_ID",
	Short: "Cancel a pending job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Cancel(args[0], reason); err != nil {
			return err
		}
		fmt.Printf("Job %s cancelled\n", args[0])
		return nil
	},
}

// upcoming command
var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List pending jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		jobs, err := a.Upcoming()
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Println("No pending jobs.")
			return nil
		}

		for _, j := range jobs {
			fmt.Printf("%s  %s  %-30s  %s\n",
				j.ID,
				j.ScheduledTime.Format("2006-01-02 15:04:05"),
				j.Recipient,
				j.FileName,
			)
		}
		return nil
	},
}

// ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the integrity ledger",
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List ledger blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		blocks := a.LedgerBlocks()
		if len(blocks) == 0 {
			fmt.Println("Ledger is empty.")
			return nil
		}

		for _, b := range blocks {
			fmt.Printf("#%d  %s  file:%s  hash:%s\n",
				b.Index,
				b.Timestamp.Format("2006-01-02 15:04:05"),
				b.FileHash[:12],
				b.Hash[:12],
			)
		}
		return nil
	},
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the ledger chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.VerifyLedger(); err != nil {
			return fmt.Errorf("ledger verification failed: %w", err)
		}
		fmt.Println("Ledger intact.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().String("to", "", "Recipient email address")
	scheduleCmd.Flags().String("at", "", "Delivery time (YYYY-MM-DD HH:MM:SS, local)")
	scheduleCmd.Flags().String("password", "", "Encryption password (prompted if omitted)")
	scheduleCmd.Flags().Bool("wait", false, "Block until the job reaches a terminal state")
	scheduleCmd.MarkFlagRequired("to")
	scheduleCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().String("out", "", "Output path (default: stdout)")
	decryptCmd.Flags().String("password", "", "Decryption password (prompted if omitted)")

	rootCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(cancelCmd)
	cancelCmd.Flags().String("reason", "", "Cancellation reason")

	rootCmd.AddCommand(upcomingCmd)

	ledgerCmd.AddCommand(ledgerShowCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd)
	rootCmd.AddCommand(ledgerCmd)
}
