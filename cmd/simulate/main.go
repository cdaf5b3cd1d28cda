// Command simulate drives a full game against a running server over
// WebSocket. It opens two connections, creates and joins a room, and
// plays random moves until the game ends. Handy for smoke-testing a
// deployment end to end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/cubegames/tictactoe3d/game/engine"
)

// event mirrors the wire envelope.
type event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type createGameRequest struct {
	PlayerName string `json:"player_name"`
}

type joinGameRequest struct {
	Room       string `json:"room"`
	PlayerName string `json:"player_name"`
}

type moveRequest struct {
	Z int `json:"z"`
	Y int `json:"y"`
	X int `json:"x"`
}

type gameCreatedPayload struct {
	Room string `json:"room"`
}

type gameOverPayload struct {
	Winner       int            `json:"winner"`
	WinnerName   string         `json:"winner_name"`
	WinningCells []engine.Coord `json:"winning_cells"`
	Message      string         `json:"message"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "play a random game against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "ws://localhost:8080/ws", Usage: "WebSocket endpoint"},
			&cli.DurationFlag{Name: "delay", Value: 100 * time.Millisecond, Usage: "pause between moves"},
			&cli.IntFlag{Name: "seed", Value: 0, Usage: "random seed (0 uses the clock)"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	seed := cmd.Int("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Info().Int64("seed", seed).Msg("starting simulation")

	playerX, err := connect(cmd.String("url"))
	if err != nil {
		return err
	}
	defer playerX.Close()

	playerO, err := connect(cmd.String("url"))
	if err != nil {
		return err
	}
	defer playerO.Close()

	// Create and join a room.
	if err := send(playerX, "create_game", createGameRequest{PlayerName: "BotX"}); err != nil {
		return err
	}
	created, err := waitFor[gameCreatedPayload](playerX, "game_created")
	if err != nil {
		return err
	}
	log.Info().Str("room", created.Room).Msg("room created")

	if err := send(playerO, "join_game", joinGameRequest{Room: created.Room, PlayerName: "BotO"}); err != nil {
		return err
	}
	if _, err := waitFor[json.RawMessage](playerO, "player_joined_self"); err != nil {
		return err
	}
	if _, err := waitFor[json.RawMessage](playerX, "player_joined"); err != nil {
		return err
	}

	return play(playerX, playerO, rng, cmd.Duration("delay"))
}

// play alternates random moves until the game ends. The bot mirrors
// the board locally with the engine, so it always knows whether the
// last placement ended the game and which broadcasts to expect.
func play(playerX, playerO *websocket.Conn, rng *rand.Rand, delay time.Duration) error {
	var board engine.Board
	conns := [2]*websocket.Conn{playerX, playerO}

	for turn := 0; ; turn = 1 - turn {
		move := randomEmptyCell(&board, rng)
		cell := engine.Coord{Z: move.Z, Y: move.Y, X: move.X}
		if err := board.Place(cell, engine.MarkFor(turn)); err != nil {
			return err
		}

		if err := send(conns[turn], "make_move", move); err != nil {
			return err
		}

		// Both connections see every broadcast.
		for _, conn := range conns {
			if _, err := waitFor[json.RawMessage](conn, "move_made"); err != nil {
				return err
			}
		}

		if _, won := board.CheckWin(cell); won {
			for _, conn := range conns {
				over, err := waitFor[gameOverPayload](conn, "game_over")
				if err != nil {
					return err
				}
				if conn == playerX {
					log.Info().
						Int("winner", over.Winner).
						Str("name", over.WinnerName).
						Interface("line", over.WinningCells).
						Msg(over.Message)
				}
			}
			return nil
		}
		if board.IsFull() {
			for _, conn := range conns {
				if _, err := waitFor[json.RawMessage](conn, "game_draw"); err != nil {
					return err
				}
			}
			log.Info().Msg("game ended in a draw")
			return nil
		}

		time.Sleep(delay)
	}
}

func randomEmptyCell(board *engine.Board, rng *rand.Rand) moveRequest {
	var empty []moveRequest
	for z := 0; z < engine.Size; z++ {
		for y := 0; y < engine.Size; y++ {
			for x := 0; x < engine.Size; x++ {
				if board.At(engine.Coord{Z: z, Y: y, X: x}) == engine.Empty {
					empty = append(empty, moveRequest{Z: z, Y: y, X: x})
				}
			}
		}
	}
	return empty[rng.Intn(len(empty))]
}

// connect dials the server and consumes the greeting.
func connect(url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if _, err := waitFor[json.RawMessage](conn, "connected"); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func send(conn *websocket.Conn, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(event{Type: eventType, Data: data})
}

func read(conn *websocket.Conn) (event, error) {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return event{}, err
	}

	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return event{}, err
	}
	return ev, nil
}

// waitFor reads events until one of the wanted type arrives, decoding
// its payload into T.
func waitFor[T any](conn *websocket.Conn, eventType string) (T, error) {
	var payload T
	for {
		ev, err := read(conn)
		if err != nil {
			return payload, err
		}
		if ev.Type == "error" {
			return payload, fmt.Errorf("server error: %s", ev.Data)
		}
		if ev.Type != eventType {
			continue
		}
		if len(ev.Data) == 0 {
			return payload, nil
		}
		return payload, json.Unmarshal(ev.Data, &payload)
	}
}
