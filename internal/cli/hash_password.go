package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tokhel/ink/internal/auth"
)

// HashPasswordCommand generates the bcrypt hash for the admin credential.
type HashPasswordCommand struct {
	Password   string
	Cost       int
	WithSecret bool
}

func NewHashPasswordCommand() *HashPasswordCommand {
	return &HashPasswordCommand{}
}

// ParseFlags parses command line flags.
func (cmd *HashPasswordCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)

	fs.StringVar(&cmd.Password, "password", "", "Password to hash (read from stdin when omitted)")
	fs.IntVar(&cmd.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	fs.BoolVar(&cmd.WithSecret, "with-secret", false, "Also generate a session secret")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-password [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate the ADMIN_PASSWORD_HASH value for the admin login.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Prompt for the password on stdin:\n")
		fmt.Fprintf(os.Stderr, "  %s hash-password\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Generate the hash and a session secret in one go:\n")
		fmt.Fprintf(os.Stderr, "  %s hash-password -with-secret\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the hash-password command.
func (cmd *HashPasswordCommand) Run() error {
	password := cmd.Password
	if password == "" {
		fmt.Fprintf(os.Stderr, "Password (min %d characters): ", auth.MinPasswordLength)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(password, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)

	if cmd.WithSecret {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			return fmt.Errorf("generating session secret: %w", err)
		}
		fmt.Printf("SESSION_SECRET=%s\n", secret)
	}

	return nil
}
