//go:build ignore

// One-off: go run scripts/genhash.go <password>
// Prints a bcrypt hash at the cost the API uses, for seeding users by hand.
package main

import (
	"fmt"
	"os"

	"Tasker/internal/auth"
)

func main() {
	password := "Admin123!"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	h, err := auth.NewBcryptHasher().Hash(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(h)
}
