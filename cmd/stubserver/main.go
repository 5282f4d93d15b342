package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/stub"
)

func main() {
	port := flag.Int("port", 5000, "port to listen on")
	seed := flag.Bool("seed", true, "seed a few sample cards and labels")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	server := stub.NewServer()
	if *seed {
		seedSamples(server)
	}

	addr := fmt.Sprintf(":%d", *port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("stub card server listening")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func seedSamples(server *stub.Server) {
	clients := server.SeedLabel(api.Label{Name: "Clients", Color: "#0891b2"})

	server.SeedCard(api.Card{
		Name:        "Priya Sharma",
		Designation: "Data Scientist",
		Company:     "Wipro",
		Email:       "priya@wipro.com",
		Phone:       "+91 98765 43210",
		Country:     "IN",
		Flag:        "🇮🇳",
		Filename:    "priya.png",
	})

	id := server.SeedCard(api.Card{
		Name:     "Dana Whitfield",
		Company:  "Acme Corp",
		Email:    "dana@acme.example",
		Country:  "US",
		Flag:     "🇺🇸",
		Filename: "dana.jpg",
	})

	if card := server.Card(id); card != nil {
		name := "Clients"
		card.LabelID = &clients
		card.LabelName = &name
	}
}
