package main

import (
	"log/slog"
	"os"

	"github.com/onemouth/chatrelay/app/bot/commands"
)

var version = "dev"

func main() {
	if err := commands.NewRootCmd(version).Execute(); err != nil {
		slog.Error("chatrelay failed", slog.Any("err", err))
		os.Exit(1)
	}
}
