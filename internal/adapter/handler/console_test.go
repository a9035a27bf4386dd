package handler_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/movie_cashier/internal/adapter/handler"
	"github.com/srgjo27/movie_cashier/internal/core/services"
)

func TestConsole_ReadsLines(t *testing.T) {
	c := handler.NewConsole(strings.NewReader("M1\r\n2025-01-01\n"))
	ctx := context.Background()

	line, err := c.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "M1", line)

	line, err = c.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", line)

	_, err = c.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsole_LastLineWithoutNewline(t *testing.T) {
	c := handler.NewConsole(strings.NewReader("yes"))

	line, err := c.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "yes", line)

	_, err = c.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsole_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	c := handler.NewConsole(strings.NewReader(long + "\nM1\n"))
	ctx := context.Background()

	line, err := c.ReadLine(ctx)
	require.NoError(t, err)
	assert.Len(t, line, len(long))

	line, err = c.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "M1", line)
}

func TestConsole_AbandonedReadDoesNotAnswerNextPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := handler.NewConsole(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ReadLine(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() {
		_, _ = io.WriteString(pw, "late\n")
		_, _ = io.WriteString(pw, "fresh\n")
	}()

	line, err := c.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", line)
}

func TestConfirmationController_WithConsole(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	controller := services.NewConfirmationController(handler.NewConsole(pr))

	answer, err := controller.Await(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, services.ConfirmTimedOut, answer)

	go func() { _, _ = io.WriteString(pw, "ignored\nYES\n") }()

	answer, err = controller.Await(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, services.ConfirmYes, answer)
}
