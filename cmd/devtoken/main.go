package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oakmount/accounts-api/internal/platform/auth"
)

// Tiny dev-only token minter.
//
// It signs an HS256 JWT with the same shared secret the API verifies
// against, so a locally minted token works against a local server:
//
//	go run ./cmd/devtoken -secret s3cret -sub "dev|alice"
func main() {
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "shared HS256 secret (defaults to JWT_SECRET)")
	sub := flag.String("sub", "dev|local", "subject claim for the token")
	ttl := flag.Duration("ttl", 30*time.Minute, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing secret: pass -secret or set JWT_SECRET")
		os.Exit(2)
	}
	if *sub == "" {
		fmt.Fprintln(os.Stderr, "missing -sub")
		os.Exit(2)
	}

	token, err := auth.SignToken(*secret, *sub, time.Now().UTC(), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
