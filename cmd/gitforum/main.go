// Command gitforum is a small terminal client for a GitForum backend. It
// keeps tokens and preferences in a state file under the user's config
// directory, so a login survives across invocations.
//
// Usage:
//
//	gitforum login -email you@example.com -password secret
//	gitforum whoami
//	gitforum feed [-language go] [-search term] [-pages 3]
//	gitforum trending [-period today|week|month]
//	gitforum notifications [-watch]
//	gitforum logout
//
// Configuration comes from GITFORUM_* environment variables, optionally via a
// .env file in the working directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	gitforum "github.com/gitforum/gitforum.go"
	"github.com/gitforum/gitforum.go/internal/config"
	"github.com/gitforum/gitforum.go/pkg/api"
	"github.com/gitforum/gitforum.go/pkg/live"
	"github.com/gitforum/gitforum.go/pkg/logger"
	"github.com/gitforum/gitforum.go/pkg/models"
	"github.com/gitforum/gitforum.go/pkg/pager"
	"github.com/gitforum/gitforum.go/pkg/storage"
	"github.com/gitforum/gitforum.go/pkg/tokens"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gitforum:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is not an error; explicit environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if cfg.Debug {
		zl = zl.Level(zerolog.DebugLevel)
	} else {
		zl = zl.Level(zerolog.WarnLevel)
	}
	log := newZerologAdapter(zl)

	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	store, err := storage.NewFile(cfg.StatePath())
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}

	ts := tokens.NewStore(store)
	client := api.NewClient(cfg.APIBaseURL, ts).
		SetTimeout(cfg.HTTPTimeout).
		SetLogger(log)
	session := gitforum.NewSession(client).SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		return errors.New("missing command")
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, session, args)
	case "logout":
		session.Logout(ctx)
		fmt.Println("signed out")
		return nil
	case "whoami":
		return cmdWhoami(ctx, session)
	case "feed":
		return cmdFeed(ctx, client, args)
	case "trending":
		return cmdTrending(ctx, client, args)
	case "notifications":
		return cmdNotifications(ctx, session, cfg, ts, log, args)
	case "stats":
		return cmdStats(ctx, client)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gitforum <login|logout|whoami|feed|trending|notifications|stats> [flags]")
}

func cmdLogin(ctx context.Context, session *gitforum.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if err := session.Login(ctx, *email, *password); err != nil {
		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			return errors.New("invalid credentials")
		}
		return err
	}
	fmt.Printf("signed in as %s\n", session.CurrentUser().Username)
	return nil
}

func cmdWhoami(ctx context.Context, session *gitforum.Session) error {
	if err := session.Restore(ctx); err != nil {
		return err
	}
	user := session.CurrentUser()
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	fmt.Printf("  posts %d, followers %d, following %d\n",
		user.PostsCount, user.FollowersCount, user.FollowingCount)
	return nil
}

func cmdFeed(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	language := fs.String("language", "", "filter by language")
	search := fs.String("search", "", "search term")
	pages := fs.Int("pages", 1, "number of pages to fetch")
	_ = fs.Parse(args)

	fetch := func(ctx context.Context, f api.PostFilters, page int) (*models.Page[models.Post], error) {
		f.Page = page
		return client.ListPosts(ctx, f)
	}
	feed := pager.New(fetch, api.PostFilters{
		Language: *language,
		Search:   *search,
	}, true)
	if err := feed.Refresh(ctx); err != nil {
		return err
	}
	for feed.Page() < *pages && feed.HasMore() {
		if err := feed.LoadMore(ctx); err != nil {
			return err
		}
	}
	for _, post := range feed.Items() {
		fmt.Printf("%-36s  %-10s  %3d likes  %s by @%s\n",
			post.ID, post.Language, post.LikesCount, post.Title, post.Author.Username)
	}
	if feed.HasMore() {
		fmt.Println("(more available)")
	}
	return nil
}

func cmdTrending(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("trending", flag.ExitOnError)
	period := fs.String("period", "week", "today, week or month")
	_ = fs.Parse(args)

	posts, err := client.Trending(ctx, api.TrendingPeriod(*period), false)
	if err != nil {
		return err
	}
	for i, post := range posts {
		fmt.Printf("%2d. %s (%d likes) by @%s\n", i+1, post.Title, post.LikesCount, post.Author.Username)
	}
	return nil
}

func cmdNotifications(ctx context.Context, session *gitforum.Session, cfg *config.Config, ts *tokens.Store, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ExitOnError)
	watch := fs.Bool("watch", false, "stay connected and print live notifications")
	_ = fs.Parse(args)

	if err := session.Restore(ctx); err != nil {
		return err
	}
	if !session.IsAuthenticated() {
		return errors.New("not signed in")
	}

	inbox, err := session.Client().ListNotifications(ctx)
	if err != nil {
		return err
	}
	for _, n := range inbox {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s: %s\n", marker, n.Type, n.Sender.Username, n.Message)
	}

	if !*watch {
		return nil
	}

	stream := live.NewStream(cfg.WSEndpoint, ts, log)
	updates, err := stream.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()
	fmt.Println("watching for notifications, ^C to stop")
	for n := range updates {
		fmt.Printf("* [%s] %s: %s\n", n.Type, n.Sender.Username, n.Message)
	}
	return nil
}

func cmdStats(ctx context.Context, client *api.Client) error {
	stats, err := client.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("posts %d, users %d, likes %d, comments %d, views %d\n",
		stats.TotalPosts, stats.TotalUsers, stats.TotalLikes, stats.TotalComments, stats.TotalViews)
	return nil
}
