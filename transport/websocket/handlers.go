package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	actionMatchNew  = "match:new"
	actionMatchJoin = "match:join"
	actionMatchTurn = "match:turn"
	actionStats     = "stats"
)

type Payload struct {
	Player    string               `json:"player,omitempty"`
	MatchID   string               `json:"match_id,omitempty"`
	BoardSize int                  `json:"board_size,omitempty"`
	Row       *int                 `json:"row,omitempty"`
	Col       *int                 `json:"col,omitempty"`
	Match     *entity.Match        `json:"match,omitempty"`
	Stats     []entity.PlayerStats `json:"stats,omitempty"`
	Error     string               `json:"error,omitempty"`
}

func (that *Server) handleNewMatch(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewMatch")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendError(c, msg.Action, "malformed payload")
	}

	payloadReq.Player = strings.TrimSpace(payloadReq.Player)
	if payloadReq.Player == "" {
		return that.sendError(c, msg.Action, "Player is required")
	}

	match, err := that.matches.CreateMatch(ctx, payloadReq.BoardSize, payloadReq.Player)
	if err != nil {
		log.Info("failed to create match", "error", err)
		return that.sendError(c, msg.Action, err.Error())
	}

	that.register(payloadReq.Player, c)

	log.Info("match created", "match_id", match.ID)

	return that.sendMessage(c, msg.Action, Payload{Player: payloadReq.Player, Match: match})
}

func (that *Server) handleJoinMatch(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleJoinMatch")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendError(c, msg.Action, "malformed payload")
	}

	payloadReq.Player = strings.TrimSpace(payloadReq.Player)
	if payloadReq.Player == "" || payloadReq.MatchID == "" {
		return that.sendError(c, msg.Action, "Player and match_id are required")
	}

	match, err := that.matches.JoinMatch(ctx, payloadReq.MatchID, payloadReq.Player)
	if err != nil {
		log.Info("failed to join match", "match_id", payloadReq.MatchID, "error", err)
		return that.sendError(c, msg.Action, err.Error())
	}

	that.register(payloadReq.Player, c)
	that.broadcast(msg.Action, match)

	log.Info("player joined match", "match_id", match.ID)

	return nil
}

func (that *Server) handleMatchTurn(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleMatchTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendError(c, msg.Action, "malformed payload")
	}

	payloadReq.Player = strings.TrimSpace(payloadReq.Player)
	if payloadReq.Player == "" || payloadReq.MatchID == "" || payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendError(c, msg.Action, "Player, match_id, row and col are required")
	}

	match, err := that.matches.MakeTurn(ctx, payloadReq.MatchID, payloadReq.Player, *payloadReq.Row, *payloadReq.Col)
	if err != nil && match == nil {
		log.Info("failed to make turn", "match_id", payloadReq.MatchID, "error", err)
		return that.sendError(c, msg.Action, err.Error())
	}

	// only a participant whose turn went through may claim the name
	if match.PlayerByName(payloadReq.Player) != nil {
		that.register(payloadReq.Player, c)
	}

	that.broadcast(msg.Action, match)

	if err != nil {
		log.Error("failed to record match", "match_id", match.ID, "error", err)
		return that.sendError(c, msg.Action, "failed to record game")
	}

	if match.IsFinished() {
		that.broadcastStats(ctx, match)
	}

	return nil
}

func (that *Server) handleStats(ctx context.Context, msg *Message, c *client) error {
	return that.sendMessage(c, msg.Action, Payload{Stats: that.readStats(ctx)})
}

// readStats degrades to an empty list when the ledger cannot be read.
func (that *Server) readStats(ctx context.Context) []entity.PlayerStats {
	stats, err := that.stats.GetStats(ctx)
	if err != nil {
		that.logger.Error("failed to fetch stats", "error", err)
		return []entity.PlayerStats{}
	}

	return stats
}

// broadcast sends the match to every participant with an open connection.
func (that *Server) broadcast(action string, match *entity.Match) {
	log := that.logger.With("method", "broadcast", "match_id", match.ID)

	for _, player := range match.Players {
		conn, ok := that.connectionOf(player.Name)
		if !ok {
			log.Warn("connection not found for player", "player", player.Name)
			continue
		}

		if err := that.sendMessage(conn, action, Payload{Player: player.Name, Match: match}); err != nil {
			log.Error("failed to send match update", "player", player.Name, "error", err)
		}
	}
}

func (that *Server) broadcastStats(ctx context.Context, match *entity.Match) {
	stats := that.readStats(ctx)

	for _, player := range match.Players {
		conn, ok := that.connectionOf(player.Name)
		if !ok {
			continue
		}

		if err := that.sendMessage(conn, actionStats, Payload{Stats: stats}); err != nil {
			that.logger.Error("failed to send stats", "player", player.Name, "error", err)
		}
	}
}

func (that *Server) sendMessage(c *client, action string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = c.writeJSON(Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *Server) sendError(c *client, action, errorMsg string) error {
	if err := that.sendMessage(c, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
