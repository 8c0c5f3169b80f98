package api

import "github.com/bwmarrin/discordgo"

// Module is a unit of bot functionality that is switched on from the command line.
// Modules that own background work may also implement io.Closer.
type Module interface {
	Load(ds *discordgo.Session) error
	Name() string
}
