package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/logger"
)

// PostgresMessageRepository handles message database operations
type PostgresMessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(db *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var messageColumns = []string{"id", "conversation_id", "sender_id", "sender_type", "text", "is_read", "attachments", "created_at"}

func scanMessage(row pgx.Row) (*models.Message, error) {
	m := &models.Message{}
	var attachments []byte
	if err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderType, &m.Text, &m.IsRead, &attachments, &m.CreatedAt); err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &m.Attachments); err != nil {
			return nil, fmt.Errorf("error decoding attachments: %w", err)
		}
	}
	return m, nil
}

func (r *PostgresMessageRepository) Create(ctx context.Context, message *models.Message) (int64, error) {
	attachments := []byte("[]")
	if len(message.Attachments) > 0 {
		encoded, err := json.Marshal(message.Attachments)
		if err != nil {
			return 0, fmt.Errorf("error encoding attachments: %w", err)
		}
		attachments = encoded
	}

	sql, args, err := r.sb.Insert("messages").
		Columns("conversation_id", "sender_id", "sender_type", "text", "is_read", "attachments").
		Values(message.ConversationID, message.SenderID, message.SenderType, message.Text, message.IsRead, attachments).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&message.ID, &message.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("conversationID", message.ConversationID).Msg("Error executing create message query")
		return 0, fmt.Errorf("error creating message: %w", err)
	}
	return message.ID, nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := r.sb.Select(messageColumns...).From("messages").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get message query: %w", err)
	}

	message, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error getting message: %w", err)
	}
	return message, nil
}

func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID, before int64, limit int) ([]*models.Message, error) {
	query := r.sb.Select(messageColumns...).From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("id DESC")
	if before > 0 {
		query = query.Where(squirrel.Lt{"id": before})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("conversationID", conversationID).Msg("Error executing list messages query")
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, conversationID int64, sender models.SenderType) (int, error) {
	sql, args, err := r.sb.Update("messages").
		Set("is_read", true).
		Where(squirrel.Eq{"conversation_id": conversationID, "sender_type": sender, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark read query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return int(cmdTag.RowsAffected()), nil
}

func (r *PostgresMessageRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete message query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

const conversationsSQL = `
SELECT m.id, m.conversation_id, m.sender_id, m.sender_type, m.text, m.is_read, m.attachments, m.created_at,
       COALESCE(u.unread, 0)
FROM (
    SELECT DISTINCT ON (conversation_id) id, conversation_id, sender_id, sender_type, text, is_read, attachments, created_at
    FROM messages
    ORDER BY conversation_id, id DESC
) m
LEFT JOIN (
    SELECT conversation_id, COUNT(*) AS unread
    FROM messages
    WHERE sender_type = 'student' AND NOT is_read
    GROUP BY conversation_id
) u ON u.conversation_id = m.conversation_id
ORDER BY m.id DESC`

func (r *PostgresMessageRepository) Conversations(ctx context.Context) ([]*models.Conversation, error) {
	rows, err := r.db.Query(ctx, conversationsSQL)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing conversations query")
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	conversations := []*models.Conversation{}
	for rows.Next() {
		m := &models.Message{}
		var attachments []byte
		var unread int
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderType, &m.Text, &m.IsRead, &attachments, &m.CreatedAt, &unread); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		if len(attachments) > 0 {
			if err := json.Unmarshal(attachments, &m.Attachments); err != nil {
				return nil, fmt.Errorf("error decoding attachments: %w", err)
			}
		}
		conversations = append(conversations, &models.Conversation{
			StudentID:   m.ConversationID,
			LastMessage: m,
			UnreadCount: unread,
		})
	}
	return conversations, rows.Err()
}
