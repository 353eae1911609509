package main

import "github.com/couchcryptid/weather-alert-bot/internal/cmd"

func main() {
	cmd.Execute()
}
