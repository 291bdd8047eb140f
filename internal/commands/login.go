package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/backend/googletasks"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

func init() {
	Register(&LoginCmd{})
	Register(&SignupCmd{})
}

// credentials are the flags shared by login and signup.
type credentials struct {
	email         string
	password      string
	passwordStdin bool
}

func (c *credentials) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.email, "email", "e", "", "account email")
	fs.StringVarP(&c.password, "password", "p", "", "account password")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "read the password from stdin")
}

// resolve fills the password from stdin when asked and checks both are set.
func (c *credentials) resolve(env *Env) error {
	if c.passwordStdin {
		if c.password != "" {
			return errors.New("--password and --password-stdin are mutually exclusive")
		}
		sc := bufio.NewScanner(env.In)
		if sc.Scan() {
			c.password = strings.TrimRight(sc.Text(), "\r")
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	c.email = strings.TrimSpace(c.email)
	if c.email == "" || c.password == "" {
		return errors.New("email and password required")
	}
	return nil
}

// LoginCmd implements the login command.
type LoginCmd struct {
	creds credentials
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string {
	return "taskdash login --email <email> [--password <pw> | --password-stdin]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) { c.creds.register(fs) }

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	if env.Config.Backend == config.BackendGoogle {
		return loginGoogle(ctx, env)
	}

	if err := c.creds.resolve(env); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	svc, code := connect(ctx, env)
	if code != exitcode.Success {
		return code
	}
	sess, err := svc.Login(ctx, c.creds.email, c.creds.password)
	if err != nil {
		env.Logger.Debug("login failed", "error", err)
		fmt.Fprintf(env.Err, "error: login failed: %s\n", apiMessage(err))
		return exitcode.FromError(err)
	}
	return saveSession(env, sess)
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name  string
	creds credentials
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string {
	return "taskdash signup --name <name> --email <email> [--password <pw> | --password-stdin]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.name, "name", "n", "", "display name")
	c.creds.register(fs)
}

func (c *SignupCmd) Run(ctx context.Context, env *Env, args []string) int {
	if err := c.creds.resolve(env); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}
	if strings.TrimSpace(c.name) == "" {
		fmt.Fprintln(env.Err, "error: name required")
		return exitcode.UserError
	}

	svc, code := connect(ctx, env)
	if code != exitcode.Success {
		return code
	}
	sess, err := svc.Register(ctx, strings.TrimSpace(c.name), c.creds.email, c.creds.password)
	if err != nil {
		env.Logger.Debug("signup failed", "error", err)
		fmt.Fprintf(env.Err, "error: signup failed: %s\n", apiMessage(err))
		return exitcode.FromError(err)
	}
	return saveSession(env, sess)
}

func saveSession(env *Env, sess service.Session) int {
	if err := env.Config.EnsureDir(); err != nil {
		fmt.Fprintf(env.Err, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := env.Session.Save(session.Session{Token: session.BearerToken(sess.Token), User: sess.User}); err != nil {
		fmt.Fprintf(env.Err, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	if !env.Config.Quiet {
		if sess.User != nil {
			output.FormatUser(env.Out, *sess.User)
		} else {
			fmt.Fprintln(env.Out, "ok")
		}
	}
	return exitcode.Success
}

func loginGoogle(ctx context.Context, env *Env) int {
	cfg := env.Config
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(env.Err, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
		fmt.Fprintln(env.Err, "To use the Google Tasks backend, you need OAuth credentials:")
		fmt.Fprintln(env.Err, "")
		fmt.Fprintln(env.Err, "1. Go to https://console.cloud.google.com/apis/credentials")
		fmt.Fprintln(env.Err, "2. Enable the Google Tasks API:")
		fmt.Fprintln(env.Err, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
		fmt.Fprintln(env.Err, "3. Create an OAuth client ID of type 'Desktop app' and download the JSON file")
		fmt.Fprintf(env.Err, "4. Save it as %s\n", cfg.OAuthClientPath())
		fmt.Fprintln(env.Err, "")
		fmt.Fprintln(env.Err, "Then run 'taskdash login' again.")
		return exitcode.AuthError
	}

	if googletasks.TokenValid(ctx, cfg, env.Session) {
		if !cfg.Quiet {
			fmt.Fprintln(env.Out, "already logged in")
		}
		return exitcode.Success
	}

	if err := googletasks.Authorize(ctx, cfg, env.Session, env.Err); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.AuthError
	}
	return ok(env)
}

// apiMessage returns the server's message for err, or err's text.
func apiMessage(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
