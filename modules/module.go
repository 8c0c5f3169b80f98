package modules

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/ballot/api"
	"github.com/lordralex/ballot/api/logger"
)

var availableModules = make(map[string]api.Module, 0)
var loadedModules = make(map[string]api.Module, 0)

// Load enables the named modules, or every available one for "all". Unknown names are logged and skipped.
func Load(ds *discordgo.Session, modules []string) error {
	if len(modules) == 1 && modules[0] == "all" {
		for k, v := range availableModules {
			loadedModules[k] = v
		}
	} else {
		for _, v := range modules {
			v = strings.ToLower(v)
			logger.Out().Printf("Loading %s\n", v)
			mod := availableModules[v]
			if mod != nil {
				loadedModules[v] = mod
			} else {
				logger.Err().Printf("Module %s does not exist\n", v)
			}
		}
	}

	for k, v := range loadedModules {
		if err := v.Load(ds); err != nil {
			return fmt.Errorf("loading module %s: %w", k, err)
		}
		logger.Out().Printf("Loaded %s\n", k)
	}
	return nil
}

// Close stops every loaded module that owns background work.
func Close() error {
	var errs []error
	for k, v := range loadedModules {
		closer, ok := v.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			logger.Err().Printf("Error closing %s: %s\n", k, err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func Add(module api.Module) {
	availableModules[module.Name()] = module
}

func GetLoaded() map[string]api.Module {
	return loadedModules
}
