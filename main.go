package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/ballot/api"
	"github.com/lordralex/ballot/api/database"
	"github.com/lordralex/ballot/api/env"
	"github.com/lordralex/ballot/api/logger"
	"github.com/lordralex/ballot/modules"
)

func main() {
	defer func() {
		err := logger.Close()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error closing logger: %s", err.Error())
		}
	}()

	token := env.Get("discord.token")
	if token == "" {
		logger.Err().Print("DISCORD_TOKEN must be set in the environment to run this process")
		return
	}
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		logger.Err().Print(err.Error())
		return
	}

	defer database.Close()

	names := os.Args[1:]
	if len(names) == 0 {
		names = []string{"polls"}
	}
	if err = modules.Load(session, names); err != nil {
		logger.Err().Print(err.Error())
		_ = modules.Close()
		return
	}

	session.Identify.Intents = api.GetIntent()
	api.EnableCommands(session, env.Get("app.id"), env.GetStringArray("polls.guilds", ";"))

	if err = session.Open(); err != nil {
		logger.Err().Print(err.Error())
		_ = modules.Close()
		return
	}

	// Wait for a CTRL-C
	logger.Out().Println("Now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	logger.Out().Println("Shutting down")

	_ = modules.Close()
	_ = session.Close()
}
