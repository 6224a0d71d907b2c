// Command devtoken signs a development token for one of the seeded roles.
//
//	JWT_SECRET=... devtoken -role manager -dept finance,hr
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"commandcentre/internal/domain"
	"commandcentre/internal/gateway/middleware"
	"commandcentre/internal/platform/config"
)

func main() {
	cfg := config.Load()

	sub := flag.String("sub", "", "subject (defaults to dev-<role>)")
	email := flag.String("email", "", "email claim (defaults to <sub>@example.com)")
	roles := flag.String("role", "staff", "comma-separated roles")
	depts := flag.String("dept", "", "comma-separated departments")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(cfg.JWT.Secret) < 32 {
		slog.Error("JWT_SECRET must be set to at least 32 bytes")
		os.Exit(2)
	}

	p, err := principalFromFlags(*sub, *email, *roles, *depts)
	if err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	token, err := middleware.SignToken([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, p, *ttl)
	if err != nil {
		slog.Error("signing token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func principalFromFlags(sub, email, roles, depts string) (domain.Principal, error) {
	var p domain.Principal
	for _, s := range splitList(roles) {
		r := domain.Role(s)
		if !r.Valid() {
			return p, fmt.Errorf("unknown role %q", s)
		}
		p.Roles = append(p.Roles, r)
	}
	for _, s := range splitList(depts) {
		d := domain.Department(s)
		if !d.Valid() {
			return p, fmt.Errorf("unknown department %q", s)
		}
		p.Departments = append(p.Departments, d)
	}

	p.ID = sub
	if p.ID == "" {
		p.ID = "dev-" + string(p.PrimaryRole())
	}
	p.Email = email
	if p.Email == "" {
		p.Email = p.ID + "@example.com"
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
