package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/utils"
	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

// main prints a bearer token for calling the filter session routes locally
// Usage: go run ./cmd/devtoken -user rider-1
func main() {
	user := flag.String("user", "dev-rider", "user ID placed in the token")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	token, err := utils.GenerateJWT(*user, *email, *ttl)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Println(token)
}
