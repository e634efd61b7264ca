// Command admin manages serving domains and API tokens directly against the
// shortener's database.
//
//	admin domain add <name> [-default] [-description text]
//	admin domain list [-active]
//	admin domain default <name>
//	admin domain enable|disable <name>
//	admin domain delete <name>
//	admin token create <name>
//	admin token list
//	admin token revoke <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-url-shortener/internal/config"
	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/repo"
	"github.com/tbourn/go-url-shortener/internal/services"
	"github.com/tbourn/go-url-shortener/internal/sysutil"
)

const usage = `usage:
  admin domain add <name> [-default] [-description text]
  admin domain list [-active]
  admin domain default <name>
  admin domain enable|disable <name>
  admin domain delete <name>
  admin token create <name>
  admin token list
  admin token revoke <id>
`

var errUsage = errors.New("invalid usage")

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr, "shortener-admin")

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	store := repo.NewStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	code := run(ctx, os.Args[1:], newAdmin(store), os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

type admin struct {
	domains *services.DomainService
	tokens  *services.AuthService
}

func newAdmin(store *repo.Store) *admin {
	return &admin{
		domains: services.NewDomainService(store),
		tokens:  services.NewAuthService(store),
	}
}

// run executes one command and returns the process exit code: 0 on success,
// 2 on bad usage, 1 on any other failure.
func run(ctx context.Context, args []string, a *admin, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "domain":
		err = a.domain(ctx, args[1], args[2:], stdout, stderr)
	case "token":
		err = a.token(ctx, args[1], args[2:], stdout, stderr)
	default:
		err = errUsage
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return 1
	}
}

// describe prints the client-facing message, or the full chain for
// internal failures.
func describe(err error) string {
	if errors.Is(err, domain.ErrInternal) {
		return err.Error()
	}
	return domain.Message(err)
}

func (a *admin) domain(ctx context.Context, sub string, args []string, stdout, stderr io.Writer) error {
	switch sub {
	case "add":
		fs := newFlagSet("domain add", stderr)
		isDefault := fs.Bool("default", false, "make this the default domain")
		desc := fs.String("description", "", "free-form description")
		name, err := oneArg(fs, args)
		if err != nil {
			return err
		}
		d, err := a.domains.Create(ctx, name, *isDefault, *desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created domain %s (id %d, default=%t)\n", d.Name, d.ID, d.IsDefault)
		return nil

	case "list":
		fs := newFlagSet("domain list", stderr)
		onlyActive := fs.Bool("active", false, "hide inactive domains")
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		ds, err := a.domains.List(ctx, *onlyActive)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDEFAULT\tACTIVE\tDESCRIPTION")
		for _, d := range ds {
			fmt.Fprintf(tw, "%d\t%s\t%t\t%t\t%s\n", d.ID, d.Name, d.IsDefault, d.IsActive, d.Description)
		}
		return tw.Flush()

	case "default":
		name, err := oneArg(newFlagSet("domain default", stderr), args)
		if err != nil {
			return err
		}
		d, err := a.domains.SetDefault(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "default domain is now %s\n", d.Name)
		return nil

	case "enable", "disable":
		name, err := oneArg(newFlagSet("domain "+sub, stderr), args)
		if err != nil {
			return err
		}
		active := sub == "enable"
		d, err := a.domains.Update(ctx, name, &active, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "domain %s active=%t\n", d.Name, d.IsActive)
		return nil

	case "delete":
		name, err := oneArg(newFlagSet("domain delete", stderr), args)
		if err != nil {
			return err
		}
		if err := a.domains.Delete(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted domain %s\n", name)
		return nil
	}
	return errUsage
}

func (a *admin) token(ctx context.Context, sub string, args []string, stdout, stderr io.Writer) error {
	switch sub {
	case "create":
		name, err := oneArg(newFlagSet("token create", stderr), args)
		if err != nil {
			return err
		}
		plain, t, err := a.tokens.Issue(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "token %d (%s) created; it will not be shown again:\n%s\n", t.ID, t.Name, plain)
		return nil

	case "list":
		if err := parseFlags(newFlagSet("token list", stderr), args); err != nil {
			return err
		}
		ts, err := a.tokens.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCREATED\tLAST USED\tREVOKED")
		for _, t := range ts {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.CreatedAt.UTC().Format(time.RFC3339), stamp(t.LastUsedAt), stamp(t.RevokedAt))
		}
		return tw.Flush()

	case "revoke":
		raw, err := oneArg(newFlagSet("token revoke", stderr), args)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.Validation(fmt.Sprintf("invalid token id %q", raw))
		}
		if err := a.tokens.Revoke(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "revoked token %d\n", id)
		return nil
	}
	return errUsage
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// oneArg parses flags and requires exactly one positional argument. Flags may
// follow the argument.
func oneArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := parseFlags(fs, args); err != nil {
		return "", err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return "", errUsage
	}
	arg := rest[0]
	if err := parseFlags(fs, rest[1:]); err != nil {
		return "", err
	}
	if fs.NArg() != 0 {
		return "", errUsage
	}
	return arg, nil
}

func stamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
