package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Println("Usage: go run cmd/hash-admin-key/main.go [api-key]")
		fmt.Println("Example: go run cmd/hash-admin-key/main.go \"borcelle-admin-key-12345\"")
		fmt.Println("Without an argument a random key is generated.")
		os.Exit(1)
	}

	apiKey := ""
	if len(os.Args) == 2 {
		apiKey = os.Args[1]
	} else {
		apiKey = "adm_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	// Hash the API key
	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Admin API key hashed successfully!\n\n")
	fmt.Printf("API Key: %s\n", apiKey)
	fmt.Printf("\nSet this in the orders API environment:\n")
	fmt.Printf("ADMIN_API_KEY_HASH='%s'\n", string(apiKeyHash))
	fmt.Printf("\n⚠️  IMPORTANT: Save this API key securely! You won't be able to see it again.\n")
	fmt.Printf("\nUse this API key in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", apiKey)
}
