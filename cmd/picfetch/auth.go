package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"picfetch/pkg/auth"
	"picfetch/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Unsplash API credentials",
	Long: `Manage stored Unsplash API credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (backward compatibility)

Stored credentials take precedence over the plain-text config file.`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login [label]",
	Short: "Store API credentials securely",
	Long: `Store an Unsplash access key and secret key securely in the system
keychain or an encrypted file.

You will be prompted for:
  - Access key
  - Secret key (optional, press Enter to skip)

Get your keys from your application page at unsplash.com/developers.`,
	Example: `  # Store the default credential set
  picfetch auth login

  # Store a named credential set
  picfetch auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List stored credential sets",
	Long:  `List all stored credential sets with masked key values.`,
	RunE:  runAuthStatus,
}

// authRemoveCmd represents the auth remove command
var authRemoveCmd = &cobra.Command{
	Use:   "remove [label]",
	Short: "Remove stored credentials",
	Long:  `Remove a stored credential set. Defaults to the default set.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRemoveCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	label := auth.DefaultLabel
	if len(args) > 0 {
		label = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Access key: ")
	accessKey, err := readSecret(reader)
	if err != nil {
		return err
	}
	if accessKey == "" {
		return fmt.Errorf("access key is required")
	}

	fmt.Print("Secret key (optional): ")
	secretKey, err := readSecret(reader)
	if err != nil {
		return err
	}

	creds := &auth.Credentials{
		Label:     label,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}

	if err := manager.Store(creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("Credentials stored for %q.", label))
	return nil
}

// readSecret reads a line without echo when stdin is a terminal,
// falling back to a plain read otherwise (pipes, tests).
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	all, err := manager.List()
	if err != nil {
		return err
	}

	if len(all) == 0 {
		ui.PrintWarning("No stored credentials. Use 'picfetch auth login' to add some.")
		return nil
	}

	for _, creds := range all {
		masked := auth.Sanitize(creds)
		ui.PrintInfo(masked.Label, fmt.Sprintf("access_key=%s (modified %s)",
			masked.AccessKey, creds.LastModified.Format("2006-01-02 15:04")))
	}

	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	label := auth.DefaultLabel
	if len(args) > 0 {
		label = args[0]
	}

	if err := manager.Delete(label); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Credentials removed for %q.", label))
	return nil
}
