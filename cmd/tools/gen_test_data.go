package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"mariana-chat/auth"
	"mariana-chat/domain/message"
	"mariana-chat/internal"
	"mariana-chat/repositories"
)

// Seeds a local database with two users, one business and a short
// conversation, so the server and viewer have something to show during
// development.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := repositories.OpenDatabase(config.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	accounts := []auth.AccountRequest{
		{Email: "alice@example.com", UserName: "Alice", Password: "CorrectHorse7!Battery"},
		{Email: "bob@example.com", UserName: "Bob", Password: "Staple4!OrangePencil"},
	}
	userIDs := []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
	}

	for i, account := range accounts {
		if err := auth.ValidateAccount(account); err != nil {
			log.Fatalf("Invalid seed account %s: %v", account.Email, err)
		}
		hash, err := auth.HashPassword(account.Password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		_, err = db.Exec(
			`INSERT OR IGNORE INTO users (id, user_name, email, password_hash) VALUES (?, ?, ?, ?)`,
			userIDs[i], account.UserName, account.Email, hash)
		if err != nil {
			log.Fatalf("Failed to insert user: %v", err)
		}
	}

	businessID := "33333333-3333-3333-3333-333333333333"
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO businesses (id, business_name) VALUES (?, ?)`,
		businessID, "Crescent Bakery"); err != nil {
		log.Fatalf("Failed to insert business: %v", err)
	}

	ctx := context.Background()
	messages := repositories.NewMessageRepository(db, internal.DiscardLogger())
	seed := []message.SendCommand{
		{SenderID: userIDs[0], ReceiverID: userIDs[1], Content: "hello"},
		{SenderID: userIDs[1], ReceiverID: userIDs[0], Content: "salam! how are you?"},
		{SenderID: userIDs[0], ReceiverID: businessID, Content: "are you open on friday?"},
	}
	for _, cmd := range seed {
		if _, err := messages.InsertMessage(ctx, cmd); err != nil {
			log.Fatalf("Failed to insert message: %v", err)
		}
		time.Sleep(5 * time.Millisecond) // keep sent_at strictly increasing
	}

	fmt.Printf("Seeded %d users, 1 business, %d messages into %s\n",
		len(accounts), len(seed), config.DatabasePath)
}
