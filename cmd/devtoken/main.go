package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erp/reconciliation/internal/infrastructure/auth"
	"github.com/erp/reconciliation/internal/infrastructure/config"
	"github.com/google/uuid"
)

func main() {
	userID := flag.String("user", "", "User ID (UUID); a random one is used when empty")
	username := flag.String("name", "dev", "Username claim")
	permissions := flag.String("perms", "*", "Comma-separated permissions")
	ttl := flag.Duration("ttl", 8*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Env == "production" {
		fmt.Fprintln(os.Stderr, "Refusing to sign tokens with the production secret")
		os.Exit(1)
	}

	id := uuid.New()
	if *userID != "" {
		if id, err = uuid.Parse(*userID); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid user ID: %v\n", err)
			os.Exit(1)
		}
	}

	var perms []string
	for p := range strings.SplitSeq(*permissions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}

	token, err := auth.NewJWTService(cfg.JWT).SignAccessToken(id, *username, perms, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
