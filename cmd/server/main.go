package main

import (
	"fmt"
	"os"
)

// @title EcoleHub SEL API
// @version 1.0
// @description Mutual-credit exchange between school parents
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
