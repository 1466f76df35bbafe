package main

import (
	"github.com/samber/lo"
	"github.com/ytgrab-cli/ytgrab/cmd"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
