package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vocalis-ai/vocalis/cmd/cli/commands"
)

func main() {
	// .env is optional for the CLI; flags and env vars take precedence
	_ = godotenv.Load()

	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
