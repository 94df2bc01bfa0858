package main

import (
	"github.com/grantgraph/grantgraph/internal/server"
	"github.com/grantgraph/grantgraph/internal/util"
	"github.com/grantgraph/grantgraph/pkg/logger"
	"github.com/grantgraph/grantgraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.EnvBool("DEBUG", false)

	consoleLogger := console.New(console.Options{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
