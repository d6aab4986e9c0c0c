package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/authform/internal/client"
	"github.com/octobees/authform/internal/config"
	"github.com/octobees/authform/internal/page"
	"github.com/octobees/authform/internal/submitter"
)

const usage = `usage:
  authform register -name NAME -email EMAIL -password PASSWORD [-role ROLE]
  authform login -email EMAIL -password PASSWORD`

var errUsage = errors.New(usage)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatalf("authform: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	fields := map[string]*string{}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	baseURL := fs.String("base-url", cfg.BaseURL, "backend origin")

	var action func(*submitter.FormSubmitter, context.Context) error
	var origin string
	switch args[0] {
	case "register":
		fields[submitter.FieldName] = fs.String(submitter.FieldName, "", "display name")
		fields[submitter.FieldEmail] = fs.String(submitter.FieldEmail, "", "email address")
		fields[submitter.FieldPassword] = fs.String(submitter.FieldPassword, "", "password")
		fields[submitter.FieldRole] = fs.String(submitter.FieldRole, "user", "user, seller or courier")
		action = (*submitter.FormSubmitter).Register
		origin = "/register"
	case "login":
		fields[submitter.FieldEmail] = fs.String(submitter.FieldEmail, "", "email address")
		fields[submitter.FieldPassword] = fs.String(submitter.FieldPassword, "", "password")
		action = (*submitter.FormSubmitter).Login
		origin = submitter.LoginPage
	default:
		return errUsage
	}
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	p, err := page.NewMemory(*baseURL + origin)
	if err != nil {
		return err
	}
	for id, value := range fields {
		p.SetField(id, *value)
	}

	var httpClient *http.Client
	if cfg.IDTokenAudience != "" {
		httpClient, err = client.NewIDTokenHTTPClient(ctx, cfg.IDTokenAudience, cfg.RequestTimeout)
		if err != nil {
			return err
		}
	}
	c, err := client.New(httpClient, *baseURL, cfg.RequestTimeout, client.WithCookieJar(p.Jar()))
	if err != nil {
		return err
	}

	var timers page.Timers
	form := submitter.New(p, c, &timers, submitter.WithRedirectDelay(cfg.RedirectDelay))
	if err := action(form, ctx); err != nil {
		return err
	}
	timers.Wait()

	fmt.Fprintf(out, "message: %s\n", p.Message())
	fmt.Fprintf(out, "location: %s\n", p.Location())
	if token, ok := p.Cookie(submitter.TokenCookie); ok {
		fmt.Fprintf(out, "cookie: %s=%s; path=%s\n", submitter.TokenCookie, token, submitter.CookiePath)
	}
	return nil
}
