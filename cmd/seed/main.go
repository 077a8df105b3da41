package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/tasklane/tasklane/config"
	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/internal/domain/entity"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
	pginfra "github.com/tasklane/tasklane/internal/infrastructure/postgres"
)

// Seeds a demo user with one todo list through the domain layer, so the
// data obeys the same rules as production writes.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	uow := pginfra.NewUnitOfWork(pool)
	defer func() { _ = uow.Close(ctx) }()

	name, err := valueobject.NewUserName("Demo User")
	if err != nil {
		log.Fatalf("seed name: %v", err)
	}
	email, err := valueobject.NewEmail("demo@tasklane.dev")
	if err != nil {
		log.Fatalf("seed email: %v", err)
	}
	u := entity.NewUser(name, email)
	if err := uow.Users().Add(ctx, u); err != nil {
		log.Fatalf("stage user: %v", err)
	}

	title, err := valueobject.NewListTitle("Getting started")
	if err != nil {
		log.Fatalf("seed title: %v", err)
	}
	desc, err := valueobject.NewDescription("A few things to try first")
	if err != nil {
		log.Fatalf("seed description: %v", err)
	}
	l := entity.NewTodoList(title, desc, u.ID())

	addItem := func(itemTitle string, priority valueobject.Priority, due *time.Time) {
		t, err := valueobject.NewItemTitle(itemTitle)
		if err != nil {
			log.Fatalf("seed item title: %v", err)
		}
		l.AddItem(t, valueobject.Description{}, priority, due)
	}
	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	addItem("Create your first list", valueobject.PriorityHigh, &tomorrow)
	addItem("Add an item with a due date", valueobject.PriorityMedium, nil)
	addItem("Complete an item", valueobject.PriorityLow, nil)

	if err := uow.TodoLists().Add(ctx, l); err != nil {
		log.Fatalf("stage list: %v", err)
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		if apperror.IsConflict(err) {
			fmt.Println("seed data already present, nothing to do")
			return
		}
		log.Fatalf("seed commit: %v", err)
	}
	fmt.Printf("seeded user id=%s email=%s with list id=%s\n", u.ID(), email, l.ID())
}
