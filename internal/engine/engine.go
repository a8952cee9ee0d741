// Package engine adapts an external UCI engine process. The rules
// engine itself performs no I/O: callers hand a FEN string to this
// adapter, block for the best-move reply and feed the parsed move back
// into the game session.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

var log = slog.Default().With("package", "engine")

// DefaultDepth is the search depth requested when the caller does not
// specify one.
const DefaultDepth = 12

// Engine wraps a running UCI engine process. A stalled engine blocks
// only the goroutine calling into this adapter, never the rules
// engine; there is no cancellation contract.
type Engine struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Scanner
	ready     bool
	mu        sync.Mutex
	responses chan string
}

// New starts the engine binary at path and performs the UCI handshake.
// Every failure is a recoverable error value; a misconfigured engine
// path must never take down the host process.
func New(path string) (*Engine, error) {
	cmd := exec.Command(path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	e := &Engine{
		cmd:       cmd,
		stdin:     stdin,
		stdout:    bufio.NewScanner(stdout),
		responses: make(chan string, 100),
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start engine %q: %w", path, err)
	}

	go e.readOutput()
	if err := e.initialize(); err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

// initialize runs the uci/isready handshake.
func (e *Engine) initialize() error {
	if err := e.send("uci"); err != nil {
		return fmt.Errorf("failed to send handshake: %w", err)
	}
	if err := e.send("isready"); err != nil {
		return fmt.Errorf("failed to send handshake: %w", err)
	}

	for response := range e.responses {
		if strings.Contains(response, "readyok") {
			e.ready = true
			return nil
		}
	}
	return fmt.Errorf("engine initialization failed: output closed before readyok")
}

// send writes one command line to the engine.
func (e *Engine) send(cmd string) error {
	log.Debug("sending command", "command", cmd)
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintln(e.stdin, cmd)
	return err
}

// readOutput continuously reads engine output. Lines nobody is waiting
// for are dropped once the buffer fills; the pipe reader must never
// stall on a chatty engine.
func (e *Engine) readOutput() {
	for e.stdout.Scan() {
		response := e.stdout.Text()
		log.Debug("received response", "response", response)
		select {
		case e.responses <- response:
		default:
		}
	}
	close(e.responses)
}

// BestMove asks the engine for its best move from the position given
// as a FEN string. Blocking round trip: the call returns when the
// engine prints its bestmove line or its output closes.
func (e *Engine) BestMove(fen string, depth int) (string, error) {
	if !e.ready {
		return "", fmt.Errorf("engine not ready")
	}
	if depth <= 0 {
		depth = DefaultDepth
	}

	if err := e.send(fmt.Sprintf("position fen %s", fen)); err != nil {
		return "", fmt.Errorf("failed to send position: %w", err)
	}
	if err := e.send(fmt.Sprintf("go depth %d", depth)); err != nil {
		return "", fmt.Errorf("failed to start search: %w", err)
	}

	for response := range e.responses {
		if !strings.HasPrefix(response, "bestmove") {
			continue
		}
		parts := strings.Fields(response)
		if len(parts) < 2 || parts[1] == "(none)" {
			return "", fmt.Errorf("engine returned no move: %q", response)
		}
		return parts[1], nil
	}
	return "", fmt.Errorf("engine output closed before bestmove")
}

// Close shuts down the engine process. Closing stdin unblocks engines
// that only exit on EOF.
func (e *Engine) Close() error {
	sendErr := e.send("quit")
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return err
	}
	return sendErr
}

// ParseBestMove converts the engine's 4-5 character long-algebraic
// reply (e.g. "e2e4", "e7e8q") into board coordinates and an optional
// promotion piece. A malformed reply is an error, never a null move.
func ParseBestMove(s string) (from, to board.Coord, promo board.PieceType, err error) {
	promo = board.NoPieceType

	if len(s) != 4 && len(s) != 5 {
		err = fmt.Errorf("malformed best move %q", s)
		return
	}

	from, err = board.ParseCoord(s[0:2])
	if err != nil {
		err = fmt.Errorf("malformed best move %q: %w", s, err)
		return
	}
	to, err = board.ParseCoord(s[2:4])
	if err != nil {
		err = fmt.Errorf("malformed best move %q: %w", s, err)
		return
	}

	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		default:
			err = fmt.Errorf("invalid promotion piece %q in %q", s[4], s)
		}
	}
	return
}
