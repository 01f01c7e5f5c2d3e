package main

import (
	"github.com/vestrapos/vestra/internal/server"
	"go.uber.org/fx"
)

func main() {
	fx.New(server.Module).Run()
}
