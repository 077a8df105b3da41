package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tasklane/tasklane/config"
	"github.com/tasklane/tasklane/internal/domain/event"
	"github.com/tasklane/tasklane/internal/infrastructure/events"
	pginfra "github.com/tasklane/tasklane/internal/infrastructure/postgres"
	"github.com/tasklane/tasklane/pkg/mailer"
)

// The event worker drains the domain event queue. Every event is logged;
// user.deleted additionally triggers an account-closure notice when Mailgun
// is configured.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	var mg *mailer.Mailgun
	if cfg.MailSendEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
		mg = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		log.Println("mailgun not configured; deletion notices will be skipped")
	}

	w := worker{pool: pool, mg: mg}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	done := consume(msgs, func(env events.Envelope) error {
		return w.handle(ctx, env)
	})

	log.Printf("event worker listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	log.Printf("shutting down...")
	// closing the channel ends delivery, so the loop can actually drain
	// within the grace period
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// consume drains deliveries until the channel closes. The returned channel
// closes once the loop has exited.
func consume(msgs <-chan amqp.Delivery, handle func(events.Envelope) error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			var env events.Envelope
			if err := json.Unmarshal(msg.Body, &env); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if err := handle(env); err != nil {
				log.Printf("handle %s failed: %v", env.Name, err)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}()
	return done
}

type worker struct {
	pool *pgxpool.Pool
	mg   *mailer.Mailgun
}

func (w worker) handle(ctx context.Context, env events.Envelope) error {
	log.Printf("event=%s occurred_at=%s", env.Name, env.OccurredAt.Format(time.RFC3339))

	if env.Name != event.NameUserDeleted || w.mg == nil {
		return nil
	}

	var ev event.UserDeleted
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}

	// The row is soft deleted, so query without the is_deleted filter.
	var name, email string
	err := w.pool.QueryRow(ctx,
		`SELECT name, email FROM users WHERE id = $1`, ev.UserID.UUID(),
	).Scan(&name, &email)
	if err != nil {
		return err
	}

	subject := "Your account has been closed"
	text := "Hi " + name + ",\n\n" +
		"Your account and all of its todo lists have been removed. " +
		"If this was not you, contact support.\n"
	return w.mg.Send(ctx, email, subject, text, "")
}
