package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/dadikeladdu/storefront/internal/config"
	"github.com/dadikeladdu/storefront/internal/session"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/grant-session/main.go <user-id> <token> <shipping-address-id>")
		fmt.Println("Example: go run cmd/grant-session/main.go \"user-42\" \"user42-token-secret\" \"addr-1\"")
		os.Exit(1)
	}

	userID := os.Args[1]
	token := os.Args[2]
	addressID := os.Args[3]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Persist the session locally
	sess := session.NewStore(cfg.Session.FilePath)
	if err := sess.Save(token, userID, addressID); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save session: %v\n", err)
		os.Exit(1)
	}

	// Hash the token so the stub backend can be provisioned with it
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(token), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Session saved to %s\n\n", cfg.Session.FilePath)
	fmt.Printf("User ID: %s\n", userID)
	fmt.Printf("Shipping Address ID: %s\n", addressID)
	fmt.Printf("\nTo provision the stub backend, set:\n")
	fmt.Printf("STUB_TOKEN_USER=%s\n", userID)
	fmt.Printf("STUB_TOKEN_HASH=%s\n", string(tokenHash))
	fmt.Printf("\n⚠️  IMPORTANT: the token itself is stored only in the session file; keep it private.\n")
}
