package main

import (
	"github.com/abhi-srivathsa/ai-restaurant-reserve/cmd"
	_ "github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/logger/autoload"
)

func main() {
	cmd.Execute()
}
