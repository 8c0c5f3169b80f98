package modules

import "github.com/lordralex/ballot/modules/polls"

func init() {
	Add(&polls.Module{})
}
