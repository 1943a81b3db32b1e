package main

import (
	_ "vibepm/docs"
	"vibepm/internal/cli"
)

// @title           VibePM API
// @version         1.0
// @description     Projects, tasks, prompts and quick captures for a personal planning app, with AI-assisted analysis.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Only required when JWT_SECRET is set.

// @schemes http
func main() {
	cli.Execute()
}
