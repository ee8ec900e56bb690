package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/thereayou/microblog/internal/mail"
	"github.com/thereayou/microblog/internal/queue"
)

type exportedPost struct {
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// ExportPosts возвращает обработчик задачи export_posts: собирает все
// посты пользователя от старых к новым, публикует целочисленный прогресс
// после каждого и отправляет результат письмом прямо из воркера.
// Необработанный сбой всё равно доводит прогресс до 100 и логируется
// со стеком — задача не должна молча зависнуть на частичном проценте.
func (s *Service) ExportPosts(mailer mail.Mailer, from string, delay time.Duration) queue.Handler {
	return func(ctx context.Context, job *queue.Job) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("export_posts: panic: %v", r)
				log.Printf("tasks: job %s: %v\n%s", job.ID, r, debug.Stack())
				if ferr := s.Fail(ctx, job.ID); ferr != nil {
					log.Printf("tasks: job %s: fail: %v", job.ID, ferr)
				}
			}
		}()

		if err := s.exportPosts(ctx, job, mailer, from, delay); err != nil {
			log.Printf("tasks: job %s: %v\n%s", job.ID, err, debug.Stack())
			if ferr := s.Fail(ctx, job.ID); ferr != nil {
				log.Printf("tasks: job %s: fail: %v", job.ID, ferr)
			}
			return err
		}
		return nil
	}
}

func (s *Service) exportPosts(ctx context.Context, job *queue.Job, mailer mail.Mailer, from string, delay time.Duration) error {
	if len(job.Args) == 0 {
		return errors.New("export_posts: missing user id argument")
	}

	user, err := s.db.GetUser(job.Args[0])
	if err != nil {
		return err
	}

	if err := s.SetProgress(ctx, job.ID, 0); err != nil {
		return err
	}

	posts, err := s.db.UserPostsOldestFirst(user.ID.String())
	if err != nil {
		return err
	}

	total := len(posts)
	data := make([]exportedPost, 0, total)
	for i, post := range posts {
		data = append(data, exportedPost{
			Body:      post.Body,
			Timestamp: post.CreatedAt.UTC().Format(time.RFC3339),
		})
		if delay > 0 {
			time.Sleep(delay)
		}
		if err := s.SetProgress(ctx, job.ID, 100*(i+1)/total); err != nil {
			return err
		}
	}
	if total == 0 {
		if err := s.SetProgress(ctx, job.ID, 100); err != nil {
			return err
		}
	}

	archive, err := json.MarshalIndent(map[string]interface{}{"posts": data}, "", "  ")
	if err != nil {
		return err
	}

	// доставка результата синхронно из воркера, без повторной постановки
	return mailer.Send(mail.Message{
		From:    from,
		To:      user.Email,
		Subject: "[Microblog] Your posts",
		Body: fmt.Sprintf("Dear %s,\n\nPlease find attached the archive of your posts.\n",
			user.Username),
		Attachments: []mail.Attachment{{
			Name:        "posts.json",
			ContentType: "application/json",
			Data:        archive,
		}},
	})
}
