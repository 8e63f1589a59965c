package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/config"
	"github.com/snusnumrick/dojoflow/internal/migration"
	"github.com/snusnumrick/dojoflow/internal/server"
	"github.com/snusnumrick/dojoflow/pkg/db"
	"github.com/snusnumrick/dojoflow/pkg/log"
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
