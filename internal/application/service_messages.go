package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

func clampHistoryQuery(q HistoryQuery) (ports.HistoryPage, error) {
	if q.Before != nil && q.After != nil {
		return ports.HistoryPage{}, fmt.Errorf("%w: before and after are mutually exclusive", domain.ErrInvalidInput)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return ports.HistoryPage{Limit: limit, Before: q.Before, After: q.After}, nil
}

// ChatHistory returns conversation turns, newest window first.
func (s *Service) ChatHistory(ctx context.Context, userID uuid.UUID, q HistoryQuery) ([]ChatMessageItem, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return nil, err
	}
	page, err := clampHistoryQuery(q)
	if err != nil {
		return nil, err
	}
	msgs, err := s.chats.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	items := make([]ChatMessageItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, toChatMessageItem(m))
	}
	return items, nil
}

// EmailHistory returns drafted and sent emails in the requested window.
func (s *Service) EmailHistory(ctx context.Context, userID uuid.UUID, q HistoryQuery) ([]EmailMessageItem, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return nil, err
	}
	page, err := clampHistoryQuery(q)
	if err != nil {
		return nil, err
	}
	msgs, err := s.emails.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	items := make([]EmailMessageItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, toEmailMessageItem(m))
	}
	return items, nil
}

// ClearChatHistory deletes every conversation turn for the account.
func (s *Service) ClearChatHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.chats.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.recordActivity(ctx, userID, domain.ActionHistoryCleared, domain.ActivityStatusSuccess, "chat history cleared",
		map[string]any{"deleted": n})
	return n, nil
}

// ListActivity returns the account's audit feed.
func (s *Service) ListActivity(ctx context.Context, userID uuid.UUID, q ActivityListQuery) ([]ActivityItem, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return nil, err
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	var since *time.Time
	if q.Days > 0 {
		t := s.nowFn().Add(-time.Duration(q.Days) * 24 * time.Hour)
		since = &t
	}
	entries, err := s.activity.ListByUser(ctx, userID, ports.ActivityQuery{
		Limit:  q.Limit,
		Offset: q.Offset,
		Action: q.Action,
		Status: q.Status,
		Since:  since,
	})
	if err != nil {
		return nil, err
	}
	items := make([]ActivityItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ActivityItem{
			Action:    e.Action,
			Status:    e.Status,
			Message:   e.Message,
			Details:   e.Details,
			Timestamp: e.CreatedAt,
		})
	}
	return items, nil
}
