package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"mariana-chat/domain/message"
	"mariana-chat/internal"
	"mariana-chat/repositories"
)

// Read-only conversation inspector for a local database. With one
// participant id it lists their conversation partners; with two it prints
// the full conversation between them.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("usage: viewer <participant_id> [other_participant_id]")
		os.Exit(2)
	}

	db, err := repositories.OpenDatabase(config.DatabasePath + "?mode=ro")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	messages := repositories.NewMessageRepository(db, internal.DiscardLogger())
	participants := repositories.NewParticipantRepository(db)

	if len(os.Args) == 2 {
		printPartners(ctx, messages, participants, os.Args[1])
		return
	}
	printConversation(ctx, messages, os.Args[1], os.Args[2])
}

func printPartners(ctx context.Context, messages repositories.MessageRepository,
	participants repositories.ParticipantRepository, participantID string) {
	ids, err := messages.PartnerIDs(ctx, participantID)
	if err != nil {
		log.Fatalf("Failed to list partners: %v", err)
	}

	color.New(color.FgGreen).Printf("Conversation partners of %s\n", participantID)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Type"})
	for _, id := range ids {
		p, err := participants.Resolve(ctx, id)
		if err != nil {
			table.Append([]string{id, "(unknown)", "-"})
			continue
		}
		table.Append([]string{p.ID, p.Name, string(p.Type)})
	}
	table.Render()
}

func printConversation(ctx context.Context, messages repositories.MessageRepository, a, b string) {
	conversation, err := messages.Conversation(ctx, message.HistoryQuery{
		ParticipantA: a,
		ParticipantB: b,
	})
	if err != nil {
		log.Fatalf("Failed to fetch conversation: %v", err)
	}

	color.New(color.FgGreen).Printf("%d messages between %s and %s\n", len(conversation), a, b)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sent at", "Sender", "Type", "Content"})
	table.AppendBulk(lo.Map(conversation, func(m message.Message, _ int) []string {
		return []string{
			m.SentAt.Format("2006-01-02 15:04:05"),
			m.SenderID,
			string(m.Type),
			m.Content,
		}
	}))
	table.Render()
}
