package api

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/ballot/api/logger"
)

// CommandFunc handles one invocation of a registered slash command.
type CommandFunc func(ds *discordgo.Session, i *discordgo.InteractionCreate)

type registeredCommand struct {
	definition *discordgo.ApplicationCommand
	handler    CommandFunc
}

var commandLock sync.RWMutex
var registeredCommands = make(map[string]registeredCommand)

func RegisterCommand(definition *discordgo.ApplicationCommand, handler CommandFunc) {
	commandLock.Lock()
	defer commandLock.Unlock()
	registeredCommands[strings.ToLower(definition.Name)] = registeredCommand{definition: definition, handler: handler}
}

func GetCommand(name string) CommandFunc {
	commandLock.RLock()
	defer commandLock.RUnlock()
	cmd, exists := registeredCommands[strings.ToLower(name)]
	if !exists {
		return nil
	}
	return cmd.handler
}

// EnableCommands publishes the registered commands to each guild once the gateway is ready
// and routes application command interactions to their handlers.
func EnableCommands(ds *discordgo.Session, appId string, guilds []string) {
	ds.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		commandLock.RLock()
		defer commandLock.RUnlock()

		for _, guild := range guilds {
			for _, v := range registeredCommands {
				logger.Out().Printf("Registering %s for guild %s\n", v.definition.Name, guild)
				_, err := s.ApplicationCommandCreate(appId, guild, v.definition)
				if err != nil {
					logger.Err().Printf("Cannot create slash command %q: %v", v.definition.Name, err)
				}
			}
		}
	})

	ds.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		handler := GetCommand(i.ApplicationCommandData().Name)
		if handler != nil {
			handler(s, i)
		}
	})
}
