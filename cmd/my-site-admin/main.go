// Command my-site-admin manages the site from the terminal: creating the
// first admin account and loading seed content from a YAML fixture.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/MisterKipper/my-site/internal/auth"
	"github.com/MisterKipper/my-site/internal/config"
	"github.com/MisterKipper/my-site/internal/model"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.ParseEnv()
	if err != nil {
		config.Exitf("my-site-admin: %v", err)
	}

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		config.Exitf("my-site-admin: open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SeedRoles(ctx); err != nil {
		config.Exitf("my-site-admin: seed roles: %v", err)
	}

	switch flag.Arg(0) {
	case "create-admin":
		err = createAdmin(ctx, store, cfg)
	case "seed":
		if flag.Arg(1) == "" {
			usage()
			os.Exit(2)
		}
		err = seed(ctx, store, cfg, flag.Arg(1))
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		config.Exitf("my-site-admin: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: my-site-admin <create-admin | seed FILE>")
}

// createAdmin prompts for credentials and creates an active admin account.
func createAdmin(ctx context.Context, store *sqlite.Store, cfg config.Config) error {
	var answers struct {
		Username string
		Email    string
	}
	questions := []*survey.Question{
		{
			Name:     "username",
			Prompt:   &survey.Input{Message: "Username:"},
			Validate: survey.Required,
		},
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	var password string
	if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password,
		survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	var confirm string
	if err := survey.AskOne(&survey.Password{Message: "Confirm password:"}, &confirm); err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	role, err := store.RoleByName(ctx, "admin")
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := model.User{
		Username:     answers.Username,
		Email:        answers.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Active:       true,
	}
	if err := store.CreateUser(ctx, &user, cfg.AdminEmail); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Printf("created admin %q (id %d)\n", user.Username, user.ID)
	return nil
}

type seedFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
		Active   bool   `yaml:"active"`
	} `yaml:"users"`
	Posts []struct {
		Author string `yaml:"author"`
		Title  string `yaml:"title"`
		Body   string `yaml:"body"`
	} `yaml:"posts"`
	Comments []struct {
		Post   string `yaml:"post"`
		Author string `yaml:"author"`
		Body   string `yaml:"body"`
	} `yaml:"comments"`
}

// seed loads users, posts, and comments from a YAML fixture. Posts reference
// authors by username and comments reference posts by slug.
func seed(ctx context.Context, store *sqlite.Store, cfg config.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fixture seedFile
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, u := range fixture.Users {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := model.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: hash,
			Active:       u.Active,
		}
		if u.Role != "" {
			role, err := store.RoleByName(ctx, u.Role)
			if err != nil {
				return fmt.Errorf("user %q: role %q: %w", u.Username, u.Role, err)
			}
			user.RoleID = role.ID
		}
		if err := store.CreateUser(ctx, &user, cfg.AdminEmail); err != nil {
			return fmt.Errorf("create user %q: %w", u.Username, err)
		}
	}

	for _, p := range fixture.Posts {
		author, err := store.UserByUsername(ctx, p.Author)
		if err != nil {
			return fmt.Errorf("post %q: author %q: %w", p.Title, p.Author, err)
		}
		post := model.Post{
			Title:    p.Title,
			AuthorID: author.ID,
			Body:     p.Body,
		}
		if err := store.CreatePost(ctx, &post); err != nil {
			return fmt.Errorf("create post %q: %w", p.Title, err)
		}
	}

	for _, c := range fixture.Comments {
		post, err := store.PostBySlug(ctx, c.Post)
		if err != nil {
			return fmt.Errorf("comment on %q: %w", c.Post, err)
		}
		author, err := store.UserByUsername(ctx, c.Author)
		if err != nil {
			return fmt.Errorf("comment author %q: %w", c.Author, err)
		}
		comment := model.Comment{PostID: post.ID, AuthorID: author.ID}
		comment.SetBody(c.Body)
		if err := store.CreateComment(ctx, &comment); err != nil {
			return fmt.Errorf("create comment on %q: %w", c.Post, err)
		}
	}

	fmt.Printf("seeded %d users, %d posts, %d comments\n",
		len(fixture.Users), len(fixture.Posts), len(fixture.Comments))
	return nil
}
