package main

import (
	"github.com/joho/godotenv"

	"github.com/dbdiff/dbdiff/cmd"
)

func main() {
	// Load .env file if it exists (silently ignore errors), so PG* connection
	// variables can live alongside a project instead of the shell environment.
	_ = godotenv.Load()

	cmd.Execute()
}
