package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"bookgraph/internal/config"
	"bookgraph/internal/microservices/graphql-api/middleware"
	"bookgraph/internal/microservices/graphql-api/schema"
)

// issue-token prints a bearer token signed with JWT_SECRET, for calling
// createBook against a server that has auth enabled.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	subject := flag.String("subject", "cli", "token subject")
	scopes := flag.String("scopes", schema.WriteScope, "comma separated scopes")
	ttl := flag.Duration("ttl", cfg.JWTExpiry, "token lifetime")
	flag.Parse()

	if !cfg.AuthEnabled() {
		log.Fatal("JWT_SECRET is not set")
	}

	var list []string
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, *subject, list, *ttl)
	if err != nil {
		log.Fatalf("could not sign token: %v", err)
	}
	fmt.Println(token)
}
