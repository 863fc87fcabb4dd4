package main

import (
	"context"
	"flag"
	"fmt"

	"lovewall/pkg/config"
	"lovewall/pkg/database"
	"lovewall/pkg/logger"
	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/repo/persistent"
	"lovewall/services/board/internal/usecase"
)

type seedPost struct {
	input    usecase.CreatePostInput
	comments []usecase.CreateCommentInput
	likes    int
}

var seedPosts = []seedPost{
	{
		input: usecase.CreatePostInput{Name: "Alice", Gender: entity.GenderFemale, Content: "To the person in the library every Tuesday: your smile makes my week."},
		comments: []usecase.CreateCommentInput{
			{Name: "Bob", Gender: entity.GenderMale, Content: "Go say hi!"},
			{Name: "Dana", Gender: entity.GenderFemale, Content: "This is adorable"},
		},
		likes: 5,
	},
	{
		input: usecase.CreatePostInput{Name: "Sam", Gender: entity.GenderOther, Content: "Happy Valentine's Day to everyone who is single and thriving."},
		comments: []usecase.CreateCommentInput{
			{Name: "Lee", Gender: entity.GenderMale, Content: "Thriving indeed"},
		},
		likes: 12,
	},
	{
		input: usecase.CreatePostInput{Name: "Anonymous", Gender: entity.GenderMale, Content: "Roses are red, violets are blue, I wrote this post just for you."},
		likes: 3,
	},
}

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "run gorm auto-migration before seeding (sqlite)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if migrate || cfg.DBDriver == database.DriverSQLite {
		if err := persistent.AutoMigrate(db); err != nil {
			log.Error("Failed to migrate schema: %v", err)
			panic(err)
		}
	}

	postRepo := persistent.NewPostRepository(db)
	commentRepo := persistent.NewCommentRepository(db)
	mutation := usecase.NewMutationUseCase(postRepo, commentRepo, nil, nil, log)

	if err := seedBoard(context.Background(), mutation, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedBoard(ctx context.Context, mutation usecase.MutationUseCase, log *logger.Logger) error {
	for _, sp := range seedPosts {
		postID, err := mutation.CreatePost(ctx, sp.input)
		if err != nil {
			return fmt.Errorf("failed to create post by %s: %w", sp.input.Name, err)
		}

		for _, c := range sp.comments {
			if _, err := mutation.CreateComment(ctx, postID, c); err != nil {
				return fmt.Errorf("failed to comment on post %s: %w", postID, err)
			}
		}

		for i := 0; i < sp.likes; i++ {
			session := entity.SessionID(fmt.Sprintf("seed-session-%d", i))
			if _, err := mutation.ToggleLike(ctx, postID, session); err != nil {
				return fmt.Errorf("failed to like post %s: %w", postID, err)
			}
		}

		log.Info("Seeded post %s by %s", postID, sp.input.Name)
	}
	return nil
}
