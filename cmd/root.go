package cmd

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jsphweid/progstudio/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const sentryFlushTimeout = 2 * time.Second

var (
	cfg *config.Config

	keyFlag      string
	scaleFlag    string
	templateFlag string
	seedFlag     int64
	tempoFlag    float64
)

var rootCmd = &cobra.Command{
	Use:   "progstudio",
	Short: "Chord progression studio",
	Long:  `Generates chord progressions for a key and scale, plays them and exports them as MIDI files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&keyFlag, "key", "k", "C", "key, one of C C# D D# E F F# G G# A A# B")
	flags.StringVarP(&scaleFlag, "scale", "s", "Major", "scale, Major or Minor")
	flags.StringVarP(&templateFlag, "template", "t", "", "progression template name (random when empty)")
	flags.Int64Var(&seedFlag, "seed", 0, "random seed for template selection (time based when 0)")
	flags.Float64Var(&tempoFlag, "tempo", 0, "playback tempo in BPM (defaults to TEMPO_BPM)")
}

func setup() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg = config.Load()
	if tempoFlag > 0 {
		cfg.TempoBPM = tempoFlag
	}

	if cfg.SentryDSN == "" {
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     "progstudio@" + version,
	})
	if err != nil {
		log.Printf("Failed to initialize Sentry: %v", err)
	}
}

var version = "dev"

func Execute() {
	err := rootCmd.Execute()
	sentry.Flush(sentryFlushTimeout)
	cobra.CheckErr(err)
}
