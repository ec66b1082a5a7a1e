package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/anicoll/forecast-service/cmd"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "forecast-service",
		Usage:  "hourly production forecast store and company position API",
		Action: cmd.ForecastCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				EnvVars:  []string{"DATABASE_URL"},
				Value:    "",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
				Value:   "./migrations",
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				EnvVars: []string{"KAFKA_BOOTSTRAP_SERVERS"},
				Value:   "localhost:9092",
			},
			&cli.StringFlag{
				Name:    "kafka-topic",
				EnvVars: []string{"KAFKA_TOPIC"},
				Value:   "position_changes",
			},
			&cli.StringFlag{
				Name:    "listen-addr",
				EnvVars: []string{"LISTEN_ADDR"},
				Value:   "0.0.0.0:8000",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
