package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/gongxings/ai-creator/app"
	"github.com/gongxings/ai-creator/auth"
	"github.com/gongxings/ai-creator/internal/config"
	"github.com/gongxings/ai-creator/internal/logging"
	"github.com/gongxings/ai-creator/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `Usage: creator [flags] <command> [args]

Commands:
  login <username>            log in and store the session
  register <username> <email> create an account
  logout                      forget the stored session
  whoami                      show the logged in user
  balance                     show credits and membership
  get <path>                  call a GET endpoint, e.g. /v1/creations
  open <route>                navigate to a page, e.g. /history
  refresh                     exchange the refresh token for new tokens

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "creator: %s\n", err)
			os.Exit(1)
		}
	}
}

func run(args []string, out io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("creator", pflag.ContinueOnError)
	flags.StringVar(&cfg.HTTP.BaseURL, "api", cfg.HTTP.BaseURL, "API base URL")
	flags.DurationVar(&cfg.HTTP.RequestTimeout, "timeout", cfg.HTTP.RequestTimeout, "per request timeout")
	flags.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "session storage: memory, file, redis or sqlite")
	flags.StringVar(&cfg.Storage.DataFolder, "data", cfg.Storage.DataFolder, "data folder for file and sqlite storage")
	flags.StringVar(&cfg.EnvVars.LogLevel, "log-level", cfg.EnvVars.LogLevel, "log level")
	passwordFile := flags.String("password-file", "", "read the password from a file instead of the terminal")
	noBanner := flags.Bool("no-banner", false, "do not print the banner")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return pflag.ErrHelp
	}

	logging.New(cfg, os.Stderr)
	if !*noBanner {
		displayAppname(cfg.GetAppName())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.WithPrompter(newTerminalPrompter(os.Stdin, os.Stderr)))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Err(err).Msg("closing app")
		}
	}()

	if err := a.Restore(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	cmd := &command{app: a, out: out, passwordFile: *passwordFile}
	err = cmd.dispatch(ctx, flags.Arg(0), flags.Args()[1:])
	a.Coordinator().Wait()
	return err
}

type command struct {
	app          *app.App
	out          io.Writer
	passwordFile string
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "login":
		if len(args) != 1 {
			return errors.New("usage: creator login <username>")
		}
		return c.login(ctx, args[0])
	case "register":
		if len(args) != 2 {
			return errors.New("usage: creator register <username> <email>")
		}
		return c.register(ctx, args[0], args[1])
	case "logout":
		if err := c.app.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "logged out")
		return nil
	case "whoami":
		return c.whoami(ctx)
	case "balance":
		return c.balance(ctx)
	case "get":
		if len(args) != 1 {
			return errors.New("usage: creator get <path>")
		}
		return c.get(ctx, args[0])
	case "open":
		if len(args) != 1 {
			return errors.New("usage: creator open <route>")
		}
		return c.open(ctx, args[0])
	case "refresh":
		if err := c.app.RefreshToken(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "tokens refreshed")
		return nil
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (c *command) login(ctx context.Context, username string) error {
	password, err := readPassword(c.passwordFile, "Password: ")
	if err != nil {
		return err
	}
	session, err := c.app.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "logged in as %s\n", displayName(session.User.DisplayName(), username))
	return nil
}

func (c *command) register(ctx context.Context, username, email string) error {
	password, err := readPassword(c.passwordFile, "Password: ")
	if err != nil {
		return err
	}
	confirm := password
	if c.passwordFile == "" {
		if confirm, err = readPassword("", "Confirm password: "); err != nil {
			return err
		}
	}
	profile, err := c.app.Register(ctx, auth.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "registered %s, run `creator login %s`\n", displayName(profile.DisplayName(), username), username)
	return nil
}

func (c *command) whoami(ctx context.Context) error {
	if !c.app.IsAuthenticated() {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}
	if err := c.app.Store().RefreshProfile(ctx); err != nil {
		return err
	}
	return printJSON(c.out, c.app.Session().User)
}

func (c *command) balance(ctx context.Context) error {
	if !c.app.IsAuthenticated() {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}
	c.app.Store().RefreshBalance(ctx)
	user := c.app.Session().User
	if user == nil {
		return errors.New("profile not loaded, run `creator whoami`")
	}
	return printJSON(c.out, user.Balance())
}

func (c *command) get(ctx context.Context, path string) error {
	outcome := c.app.Execute(ctx, pipeline.Get(path, nil))
	success, ok := outcome.(pipeline.Success)
	if !ok {
		return outcome.Err()
	}
	return printJSON(c.out, success.Data)
}

func (c *command) open(ctx context.Context, route string) error {
	loc, err := c.app.Navigate(ctx, route)
	if err != nil {
		return err
	}
	if loc.FullPath() != route {
		fmt.Fprintf(c.out, "redirected to %s (%s)\n", loc.FullPath(), loc.Name)
		return nil
	}
	fmt.Fprintf(c.out, "%s (%s)\n", loc.FullPath(), loc.Name)
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
