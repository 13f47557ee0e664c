// Command admin manages administrator accounts.
//
//	admin -config ./config/local.yaml create -name "Admin User" -email admin@example.com -password admin123
//	admin -config ./config/local.yaml recreate -email admin@example.com -password newpass
//	admin -config ./config/local.yaml list
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/config"
	"flashcard_service/internal/service"
	"flashcard_service/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the YAML config file (or CONFIG_PATH)")
	flag.Usage = usage

	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	configPath = config.ResolvePath(configPath)
	if configPath == "" {
		log.Fatal("failed get config path from flags")
	}

	cfg := config.MustLoadConfig(configPath)
	lgr := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx := context.Background()

	st, err := storage.NewPostgresStorage(ctx, cfg.DB.DbURL, cfg.DB.MaxConns)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer st.Close()

	if err := st.RunMigrations(ctx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		log.Fatalf("failed to init token service: %v", err)
	}

	svc := service.NewAuthService(st, tokens, lgr)

	if err := run(ctx, svc, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config path] create|recreate|list [-name n] [-email e] [-password p]\n", os.Args[0])
	flag.PrintDefaults()
}

func run(ctx context.Context, svc service.Auth, cmd string, args []string) error {
	switch cmd {
	case "create", "recreate":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		name := fs.String("name", "Admin User", "admin display name")
		email := fs.String("email", "admin@example.com", "admin email")
		password := fs.String("password", "", "admin password")

		if err := fs.Parse(args); err != nil {
			return err
		}

		user, err := svc.CreateAdmin(ctx, *name, *email, *password, cmd == "recreate")
		if err != nil {
			return fmt.Errorf("%s admin: %w", cmd, err)
		}

		fmt.Printf("admin %s: id=%s email=%s\n", cmd+"d", user.ID, user.Email)

		return nil
	case "list":
		users, err := svc.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}

		return w.Flush()
	}

	return fmt.Errorf("unknown command %q", cmd)
}
