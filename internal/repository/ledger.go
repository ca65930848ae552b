package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

type LedgerRepository interface {
	SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error)
	GetStats(ctx context.Context) ([]entity.PlayerStats, error)
	GetGame(ctx context.Context, id int64) (*entity.Game, error)
}

type ledgerRepository struct {
	conn *sql.DB
}

func NewLedgerRepository(conn *sql.DB) LedgerRepository {
	return &ledgerRepository{
		conn: conn,
	}
}

// SaveGame records a finished game and both participants in one transaction.
// Nothing is written when the params are rejected or any statement fails.
func (that *ledgerRepository) SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return 0, fmt.Errorf("can't save game: %w", err)
	}

	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: can't begin transaction: %w", apperror.ErrPersistence, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	playerX, err := upsertPlayer(ctx, tx, params.Players.X)
	if err != nil {
		return 0, err
	}

	playerO, err := upsertPlayer(ctx, tx, params.Players.O)
	if err != nil {
		return 0, err
	}

	var winnerID *int64
	switch params.WinnerMark() {
	case entity.PlayerX:
		winnerID = &playerX
	case entity.PlayerO:
		winnerID = &playerO
	}

	query := `INSERT INTO games (board_size, status, winner_id) VALUES ($1, $2, $3) RETURNING id`

	var gameID int64
	err = tx.QueryRowContext(ctx, query, params.BoardSize, string(params.Status), winnerID).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("%w: can't insert game: %w", apperror.ErrPersistence, err)
	}

	query = `INSERT INTO game_players (game_id, player_id, mark) VALUES ($1, $2, $3), ($1, $4, $5)`

	_, err = tx.ExecContext(ctx, query, gameID, playerX, string(entity.PlayerX), playerO, string(entity.PlayerO))
	if err != nil {
		return 0, fmt.Errorf("%w: can't insert game players: %w", apperror.ErrPersistence, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: can't commit game: %w", apperror.ErrPersistence, err)
	}

	return gameID, nil
}

func upsertPlayer(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	query := `INSERT INTO players (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int64
	if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: can't upsert player %q: %w", apperror.ErrPersistence, name, err)
	}

	return id, nil
}

// GetStats aggregates wins, losses and draws for every player with at least one game,
// most wins first and ties by name.
func (that *ledgerRepository) GetStats(ctx context.Context) ([]entity.PlayerStats, error) {
	query := `SELECT p.name,
			SUM(CASE WHEN g.status = 'win' AND g.winner_id = p.id THEN 1 ELSE 0 END) AS wins,
			SUM(CASE WHEN g.status = 'win' AND g.winner_id <> p.id THEN 1 ELSE 0 END) AS losses,
			SUM(CASE WHEN g.status = 'draw' THEN 1 ELSE 0 END) AS draws
		FROM players p
		JOIN game_players gp ON gp.player_id = p.id
		JOIN games g ON g.id = gp.game_id
		GROUP BY p.id, p.name
		ORDER BY wins DESC, p.name ASC`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: can't query stats: %w", apperror.ErrPersistence, err)
	}
	defer rows.Close()

	stats := make([]entity.PlayerStats, 0)
	for rows.Next() {
		var row entity.PlayerStats
		if err = rows.Scan(&row.Name, &row.Wins, &row.Losses, &row.Draws); err != nil {
			return nil, fmt.Errorf("%w: can't scan stats: %w", apperror.ErrPersistence, err)
		}
		stats = append(stats, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: can't read stats: %w", apperror.ErrPersistence, err)
	}

	return stats, nil
}

func (that *ledgerRepository) GetGame(ctx context.Context, id int64) (*entity.Game, error) {
	query := `SELECT g.id, g.board_size, g.status, g.winner_id, w.name, g.created_at
		FROM games g
		LEFT JOIN players w ON w.id = g.winner_id
		WHERE g.id = $1`

	var (
		game       entity.Game
		status     string
		winnerID   sql.NullInt64
		winnerName sql.NullString
	)

	err := that.conn.QueryRowContext(ctx, query, id).
		Scan(&game.ID, &game.BoardSize, &status, &winnerID, &winnerName, &game.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", id, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: can't find game: %w", apperror.ErrPersistence, err)
	}

	game.Status = entity.GameStatus(status)
	if winnerID.Valid {
		game.WinnerID = &winnerID.Int64
		game.WinnerName = winnerName.String
	}

	query = `SELECT gp.player_id, p.name, gp.mark
		FROM game_players gp
		JOIN players p ON p.id = gp.player_id
		WHERE gp.game_id = $1
		ORDER BY CASE gp.mark WHEN 'X' THEN 0 ELSE 1 END`

	rows, err := that.conn.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%w: can't query game players: %w", apperror.ErrPersistence, err)
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		if count == len(game.Participants) {
			return nil, fmt.Errorf("%w: game %d has more than two players", apperror.ErrPersistence, id)
		}

		var (
			participant entity.Participant
			mark        string
		)
		if err = rows.Scan(&participant.PlayerID, &participant.Name, &mark); err != nil {
			return nil, fmt.Errorf("%w: can't scan game player: %w", apperror.ErrPersistence, err)
		}
		participant.Mark = entity.Mark(mark)

		game.Participants[count] = participant
		count++
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: can't read game players: %w", apperror.ErrPersistence, err)
	}

	return &game, nil
}
