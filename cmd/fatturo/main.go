package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/config"
	"github.com/fatturo/fatturo/internal/migration"
	"github.com/fatturo/fatturo/internal/server"
	"github.com/fatturo/fatturo/pkg/db"
	"github.com/fatturo/fatturo/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
