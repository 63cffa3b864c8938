package main

import (
	"unimarket-backend/bootstrap"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := bootstrap.Run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
