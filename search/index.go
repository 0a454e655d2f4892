// Package search maintains a full-text index over message content. The
// index is a read-side convenience fed by the router after persistence;
// the relational store stays the source of truth and the index can be
// rebuilt from it at any time.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"

	"mariana-chat/domain/message"
)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(dir string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// IndexMessage upserts one message. Voice notes are indexed too; their
// content is a URI, which simply never matches a word query.
func (i *Index) IndexMessage(msg message.Message) error {
	doc := bluge.NewDocument(msg.ID.String()).
		AddField(bluge.NewTextField("content", msg.Content)).
		AddField(bluge.NewKeywordField("sender_id", msg.SenderID)).
		AddField(bluge.NewKeywordField("receiver_id", msg.ReceiverID))

	return i.writer.Update(doc.ID(), doc)
}

// Search returns the ids of the participant's messages matching the query,
// best match first. Only messages the participant sent or received are
// visible; other conversations never leak through search.
func (i *Index) Search(ctx context.Context, participantID, query string, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open index reader: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	visibility := bluge.NewBooleanQuery()
	visibility.AddShould(bluge.NewTermQuery(participantID).SetField("sender_id"))
	visibility.AddShould(bluge.NewTermQuery(participantID).SetField("receiver_id"))
	visibility.SetMinShould(1)

	matched := bluge.NewBooleanQuery()
	matched.AddMust(bluge.NewMatchQuery(query).SetField("content"))
	matched.AddMust(visibility)

	request := bluge.NewTopNSearch(limit, matched)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var ids []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("search iteration failed: %w", err)
	}
	return ids, nil
}
