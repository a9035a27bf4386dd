package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/srgjo27/movie_cashier/internal/core/ports"
)

type Confirmation int

const (
	ConfirmNo Confirmation = iota
	ConfirmYes
	ConfirmTimedOut
)

func (c Confirmation) String() string {
	switch c {
	case ConfirmYes:
		return "yes"
	case ConfirmTimedOut:
		return "timed_out"
	default:
		return "no"
	}
}

// ConfirmationController bounds the wait for the cashier's answer to a hold.
type ConfirmationController struct {
	input ports.LineReader
}

func NewConfirmationController(input ports.LineReader) *ConfirmationController {
	return &ConfirmationController{input: input}
}

// Await returns ConfirmTimedOut once timeout elapses without an answer. End of
// input and parent cancellation are returned as errors.
func (c *ConfirmationController) Await(ctx context.Context, timeout time.Duration) (Confirmation, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	line, err := c.input.ReadLine(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ConfirmTimedOut, nil
		}
		return ConfirmNo, err
	}

	return ParseAnswer(line), nil
}

func ParseAnswer(line string) Confirmation {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return ConfirmYes
	default:
		return ConfirmNo
	}
}
