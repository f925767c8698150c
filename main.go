package main

import (
	"github.com/joho/godotenv"

	"github.com/KaramelBytes/autompg-cli/cmd"
)

func main() {
	// A .env next to the binary may set AUTOMPG_* keys; it is optional.
	_ = godotenv.Load()
	cmd.Execute()
}
