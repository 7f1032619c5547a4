// Command seed fills the REST API with a fake user, posts and threaded
// comments through the same services the web frontend uses, then prints each
// thread as the post page would order it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"social-web/internal/apiclient"
	"social-web/internal/auth"
	"social-web/internal/comment"
	"social-web/internal/events"
	"social-web/internal/images"
	"social-web/internal/logx"
	"social-web/internal/post"
	"social-web/internal/session"
)

func main() {
	apiURL := flag.String("api", envOr("API_URL", "http://localhost:3000"), "REST API base url")
	posts := flag.Int("posts", 3, "posts to create")
	comments := flag.Int("comments", 2, "top-level comments per post")
	replies := flag.Int("replies", 2, "replies per comment")
	password := flag.String("password", "123456", "password of the seeded user")
	flag.Parse()

	logger := logx.New(envOr("LOG_LEVEL", "info"), "text")
	log := logger.WithField("component", "seed")
	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	api, err := apiclient.New(apiclient.Config{BaseURL: *apiURL}, log)
	if err != nil {
		log.WithError(err).Fatal("api client")
	}
	sess := session.NewManager(session.NewMemoryStore(), 0, false, log).Bind(uuid.NewString())
	client := api.WithTokens(sess)

	authSvc := auth.NewService(client, sess, log)
	postSvc := post.NewService(client, images.DataURL{}, events.Nop{}, log)
	commentSvc := comment.NewService(client, events.Nop{}, log)

	// 1. Register and log in.
	reg := auth.RegisterRequest{
		Email:           strings.ToLower(gofakeit.Email()),
		Nickname:        gofakeit.Username(),
		Password:        *password,
		ConfirmPassword: *password,
	}
	if err := authSvc.Register(ctx, reg); err != nil {
		log.WithError(err).Fatal("register")
	}
	if err := authSvc.Login(ctx, auth.LoginRequest{Email: reg.Email, Password: reg.Password}); err != nil {
		log.WithError(err).Fatal("login")
	}
	me, err := authSvc.Me(ctx)
	if err != nil {
		log.WithError(err).Fatal("current user")
	}
	log.WithField("email", reg.Email).Info("seed user ready")

	// 2. Posts, each with an image, comments and one level of replies.
	for i := 0; i < *posts; i++ {
		uploads := []images.Upload{{
			Filename:    fmt.Sprintf("seed-%d.png", i),
			ContentType: "image/png",
			Data:        gofakeit.ImagePng(64, 64),
		}}
		postID, err := postSvc.Create(ctx, me, gofakeit.Sentence(8), uploads)
		if err != nil {
			log.WithError(err).Error("create post")
			continue
		}
		for c := 0; c < *comments; c++ {
			parentID, err := commentSvc.Submit(ctx, postID, comment.Draft{Content: gofakeit.Sentence(6)})
			if err != nil {
				log.WithError(err).Error("create comment")
				continue
			}
			for r := 0; r < *replies && parentID != ""; r++ {
				if _, err := commentSvc.Submit(ctx, postID, comment.Draft{Content: gofakeit.Sentence(4), ParentID: parentID}); err != nil {
					log.WithError(err).Error("create reply")
				}
			}
		}
		if err := printThread(ctx, postSvc, postID); err != nil {
			log.WithError(err).Warn("read back post")
		}
	}

	// 3. The feed as the dashboard shows it.
	feed, err := postSvc.List(ctx)
	if err != nil {
		log.WithError(err).Fatal("list posts")
	}
	log.WithField("posts", len(feed)).Info("seeding done")
}

func printThread(ctx context.Context, svc *post.Service, id string) error {
	p, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	thread := p.Thread()
	fmt.Printf("post %s %q (%d comments)\n", p.ID, p.CaptionText(), thread.Count())
	thread.Walk(0, func(n *comment.Node, depth int) {
		fmt.Printf("%s- %s: %s\n", strings.Repeat("  ", depth+1), n.User.DisplayName("anonymous"), n.Content)
	})
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
