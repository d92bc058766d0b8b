// Command gentoken mints a bearer token for calling the API, standing in for
// the host's session system. By default it issues an administrator token.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	jwtsvc "dmapi/internal/pkg/jwt"
)

func main() {
	userID := flag.Int64("user", 1, "user ID embedded in the token")
	role := flag.String("role", jwtsvc.RoleAdministrator, "role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	token, err := jwtsvc.New(secret, *ttl).GenerateToken(*userID, *role)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
