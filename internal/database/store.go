package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrStorage marks any profile or history persistence failure. Callers use
// errors.Is(err, ErrStorage) to distinguish storage failures from other
// pipeline errors; a storage failure aborts the current message's turn.
var ErrStorage = errors.New("storage error")

// DefaultContextTurns bounds the history slice handed to the completion
// call. This is a deliberate context-window policy, not an accidental
// limit: storage keeps every turn, reads stay cheap.
const DefaultContextTurns = 20

// Store defines the persistence operations used by the response pipeline.
// Methods accept context.Context for cancellation and timeouts. The store
// is shared by all concurrent message handlers; it is responsible for its
// own request safety.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetOrCreateProfile returns the profile for sender, creating an empty
	// one atomically on first contact. Concurrent first contact from the
	// same sender yields exactly one profile.
	GetOrCreateProfile(ctx context.Context, sender string) (*Profile, error)

	// AppendTurn inserts one new conversation turn. Each call appends;
	// appends are single-row inserts, never read-modify-write.
	AppendTurn(ctx context.Context, turn *Turn) error

	// RecentTurns retrieves the most recent 'limit' turns for sender,
	// ordered oldest-first within that slice. A sender with no history
	// yields an empty slice, not an error.
	RecentTurns(ctx context.Context, sender string, limit int) ([]Turn, error)

	// PruneTurns deletes every turn beyond the most recent 'keep' per
	// sender and reports how many rows were removed.
	PruneTurns(ctx context.Context, keep int) (int64, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrStorage, err)
	}
	return nil
}

// GetOrCreateProfile uses an insert-if-absent upsert rather than an
// application-level check-then-act, so two concurrent first-contact
// messages collapse to a single row.
func (s *sqlxStore) GetOrCreateProfile(ctx context.Context, sender string) (*Profile, error) {
	if sender == "" {
		return nil, fmt.Errorf("%w: sender cannot be empty", ErrStorage)
	}

	now := time.Now().UTC()
	insert := `
        INSERT INTO profiles (sender, preferences, favorite_responses, conversation_history, created_at, updated_at)
        VALUES (?, '{}', '[]', '[]', ?, ?)
        ON CONFLICT(sender) DO NOTHING;
    `
	result, err := s.db.ExecContext(ctx, insert, sender, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting profile", "sender", sender, "error", err)
		return nil, fmt.Errorf("%w: upsert profile for sender %q: %v", ErrStorage, sender, err)
	}

	if affected, raErr := result.RowsAffected(); raErr == nil && affected == 1 {
		s.logger.InfoContext(ctx, "Created profile on first contact", "sender", sender)
	}

	var profile Profile
	query := `
        SELECT sender, preferences, favorite_responses, conversation_history, created_at, updated_at
        FROM profiles
        WHERE sender = ?;
    `
	if err := s.db.GetContext(ctx, &profile, query, sender); err != nil {
		s.logger.ErrorContext(ctx, "Error loading profile after upsert", "sender", sender, "error", err)
		return nil, fmt.Errorf("%w: load profile for sender %q: %v", ErrStorage, sender, err)
	}

	return &profile, nil
}

func (s *sqlxStore) AppendTurn(ctx context.Context, turn *Turn) error {
	if turn == nil {
		return fmt.Errorf("%w: cannot append nil turn", ErrStorage)
	}
	if turn.Sender == "" {
		return fmt.Errorf("%w: turn must have a sender", ErrStorage)
	}
	if turn.Role != RoleHuman && turn.Role != RoleBot {
		return fmt.Errorf("%w: invalid turn role %q", ErrStorage, turn.Role)
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	turn.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO turns (sender, content, role, timestamp, created_at)
        VALUES (:sender, :content, :role, :timestamp, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, turn)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending turn", "sender", turn.Sender, "role", turn.Role, "error", err)
		return fmt.Errorf("%w: append %s turn for sender %q: %v", ErrStorage, turn.Role, turn.Sender, err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		turn.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID for turn",
			"sender", turn.Sender, "error", idErr)
	}

	s.logger.DebugContext(ctx, "Turn appended", "sender", turn.Sender, "role", turn.Role, "turn_id", turn.ID)
	return nil
}

func (s *sqlxStore) RecentTurns(ctx context.Context, sender string, limit int) ([]Turn, error) {
	if sender == "" {
		return nil, fmt.Errorf("%w: sender cannot be empty", ErrStorage)
	}
	if limit <= 0 {
		limit = DefaultContextTurns
		s.logger.DebugContext(ctx, "Invalid limit provided, using default", "sender", sender, "limit", limit)
	}

	var turns []Turn
	query := `
        SELECT id, sender, content, role, timestamp, created_at
        FROM turns
        WHERE sender = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &turns, query, sender, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent turns", "sender", sender, "limit", limit, "error", err)
		return nil, fmt.Errorf("%w: recent turns for sender %q: %v", ErrStorage, sender, err)
	}

	// Query returns newest-first; callers want the slice oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	s.logger.DebugContext(ctx, "Fetched recent turns", "sender", sender, "count", len(turns))
	return turns, nil
}

func (s *sqlxStore) PruneTurns(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, fmt.Errorf("%w: prune keep count must be positive", ErrStorage)
	}

	query := `
        DELETE FROM turns
        WHERE id NOT IN (
            SELECT id FROM turns AS recent
            WHERE recent.sender = turns.sender
            ORDER BY recent.timestamp DESC, recent.id DESC
            LIMIT ?
        );
    `
	result, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning turns", "keep", keep, "error", err)
		return 0, fmt.Errorf("%w: prune turns beyond %d per sender: %v", ErrStorage, keep, err)
	}

	pruned, _ := result.RowsAffected()
	if pruned > 0 {
		s.logger.InfoContext(ctx, "Pruned old turns", "keep", keep, "pruned", pruned)
	}
	return pruned, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("%w: vacuum: %v", ErrStorage, err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed.")
	return nil
}
