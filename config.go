package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	password     string
	passwordHash string

	numberMin      int
	numberMax      int
	numberAttempts int

	matrixSize     int
	matrixAttempts int
	matrixMemorize time.Duration

	quizQuestions int
	quizOptions   int

	llmEndpoint string
	llmAPIKey   string
	llmModel    string
	llmTimeout  time.Duration

	soundsDir string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.password != "" && c.passwordHash != "" {
		return errors.New("only one of --password and --password-hash may be provided")
	}
	if c.numberMin >= c.numberMax {
		return fmt.Errorf("invalid number range (--number-min must be below --number-max): %d-%d", c.numberMin, c.numberMax)
	}
	if c.numberAttempts < 1 {
		return fmt.Errorf("invalid number of attempts (must be at least 1): %d", c.numberAttempts)
	}
	if c.matrixSize < 1 || c.matrixSize > 9 {
		return fmt.Errorf("invalid matrix size (must be between 1-9 inclusive): %d", c.matrixSize)
	}
	if c.matrixAttempts < 1 {
		return fmt.Errorf("invalid number of matrix attempts (must be at least 1): %d", c.matrixAttempts)
	}
	if c.quizQuestions < 1 {
		return fmt.Errorf("invalid number of quiz questions (must be at least 1): %d", c.quizQuestions)
	}
	if c.quizOptions < 2 {
		return fmt.Errorf("invalid number of quiz options (must be at least 2): %d", c.quizOptions)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) quizEnabled() bool {
	return c.llmAPIKey != ""
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FOODFEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "foodfest",
		Short:         "Party games for the food fest, served as a single password-protected webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: FOODFEST_BIND)")
	fs.StringVar(&cfg.llmAPIKey, "llm-api-key", "", "api key for the quiz question generator (env: FOODFEST_LLM_API_KEY)")
	fs.StringVar(&cfg.llmEndpoint, "llm-endpoint", "", "base url of an openai-compatible api, if not api.openai.com (env: FOODFEST_LLM_ENDPOINT)")
	fs.StringVar(&cfg.llmModel, "llm-model", "openai/gpt-oss-120b", "model used to generate quiz questions (env: FOODFEST_LLM_MODEL)")
	fs.DurationVar(&cfg.llmTimeout, "llm-timeout", 60*time.Second, "time to wait for quiz questions to be generated (env: FOODFEST_LLM_TIMEOUT)")
	fs.IntVar(&cfg.matrixAttempts, "matrix-attempts", 3, "guesses allowed per memory matrix round (env: FOODFEST_MATRIX_ATTEMPTS)")
	fs.DurationVar(&cfg.matrixMemorize, "matrix-memorize", 5*time.Second, "suggested time to memorize the matrix (env: FOODFEST_MATRIX_MEMORIZE)")
	fs.IntVar(&cfg.matrixSize, "matrix-size", 3, "width and height of the memory matrix (env: FOODFEST_MATRIX_SIZE)")
	fs.IntVar(&cfg.numberAttempts, "number-attempts", 3, "guesses allowed per hidden number round (env: FOODFEST_NUMBER_ATTEMPTS)")
	fs.IntVar(&cfg.numberMax, "number-max", 100, "largest possible hidden number (env: FOODFEST_NUMBER_MAX)")
	fs.IntVar(&cfg.numberMin, "number-min", 1, "smallest possible hidden number (env: FOODFEST_NUMBER_MIN)")
	fs.StringVar(&cfg.password, "password", "", "password required to play (env: FOODFEST_PASSWORD)")
	fs.StringVar(&cfg.passwordHash, "password-hash", "", "bcrypt hash of the password required to play (env: FOODFEST_PASSWORD_HASH)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: FOODFEST_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: FOODFEST_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: FOODFEST_PROFILE)")
	fs.IntVar(&cfg.quizOptions, "quiz-options", 3, "answer options per quiz question (env: FOODFEST_QUIZ_OPTIONS)")
	fs.IntVar(&cfg.quizQuestions, "quiz-questions", 5, "questions per generated quiz (env: FOODFEST_QUIZ_QUESTIONS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle sessions are ended (env: FOODFEST_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.soundsDir, "sounds-dir", "sounds", "directory containing sound effects (env: FOODFEST_SOUNDS_DIR)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: FOODFEST_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: FOODFEST_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: FOODFEST_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: FOODFEST_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("foodfest v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
