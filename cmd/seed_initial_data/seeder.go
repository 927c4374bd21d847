package main

import (
	"context"
	"fmt"
	"time"

	"quiz-quest/cmd/seed_initial_data/internal/seedmodels"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// seeder inserts records that are not present yet. Users are matched by
// email, content by title, so running it twice changes nothing.
type seeder struct {
	repos    *repository.Repositories
	log      *zap.Logger
	hashCost int
	now      func() time.Time
}

type seedReport struct {
	Created int
	Skipped int
}

func (r *seedReport) add(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}

func (s *seeder) run(ctx context.Context, data *seedmodels.SeedFile) (seedReport, error) {
	var report seedReport

	for _, u := range data.Users {
		created, err := s.seedUser(ctx, u)
		if err != nil {
			return report, err
		}
		report.add(created)
	}
	for i := range data.Courses {
		created, err := seedByTitle(ctx, s, s.repos.Courses, &data.Courses[i], data.Courses[i].Title)
		if err != nil {
			return report, err
		}
		report.add(created)
	}
	for i := range data.Tutorials {
		created, err := seedByTitle(ctx, s, s.repos.Tutorials, &data.Tutorials[i], data.Tutorials[i].Title)
		if err != nil {
			return report, err
		}
		report.add(created)
	}
	for i := range data.Articles {
		a := &data.Articles[i]
		if a.PublishedDate.IsZero() {
			a.PublishedDate = s.now().UTC()
		}
		if a.Tags == nil {
			a.Tags = []string{}
		}
		created, err := seedByTitle(ctx, s, s.repos.Articles, a, a.Title)
		if err != nil {
			return report, err
		}
		report.add(created)
	}
	for i := range data.Quizzes {
		q := &data.Quizzes[i]
		if q.QuestionsCount == 0 {
			q.QuestionsCount = len(q.Questions)
		}
		created, err := seedByTitle(ctx, s, s.repos.Quizzes, q, q.Title)
		if err != nil {
			return report, err
		}
		report.add(created)
	}
	return report, nil
}

func (s *seeder) seedUser(ctx context.Context, u seedmodels.SeedUser) (bool, error) {
	existing, err := s.repos.Users.FindOneBy(ctx, "email", u.Email)
	if err != nil {
		return false, fmt.Errorf("error checking user %s: %w", u.Email, err)
	}
	if existing != nil {
		s.log.Info("User exists.", zap.String("email", u.Email))
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.hashCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
	}
	role := u.Role
	if role == "" {
		role = domain.RoleStudent
	}
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	user, err := s.repos.Users.Create(ctx, &domain.User{
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      role,
		IsActive:  true,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Skills:    skills,
		Password:  string(hash),
	})
	if err != nil {
		return false, fmt.Errorf("failed to save user %s: %w", u.Email, err)
	}
	s.log.Info("Created user.", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return true, nil
}

func seedByTitle[T any](ctx context.Context, s *seeder, repo repository.Repository[T], rec *T, title string) (bool, error) {
	existing, err := repo.FindOneBy(ctx, "title", title)
	if err != nil {
		return false, fmt.Errorf("error checking %q: %w", title, err)
	}
	if existing != nil {
		s.log.Info("Record exists.", zap.String("title", title))
		return false, nil
	}
	if _, err := repo.Create(ctx, rec); err != nil {
		return false, fmt.Errorf("failed to save %q: %w", title, err)
	}
	s.log.Info("Created record.", zap.String("title", title))
	return true, nil
}
