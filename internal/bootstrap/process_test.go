package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

func testProcess(exitCode *int) *Process {
	return &Process{Name: "test", Logger: logger.Nop(), exit: func(code int) { *exitCode = code }}
}

func TestCloseRunsNewestFirst(t *testing.T) {
	code := -1
	p := testProcess(&code)
	var order []string
	p.Defer("db", func() error { order = append(order, "db"); return nil })
	p.Defer("redis", func() error { order = append(order, "redis"); return errors.New("already closed") })

	p.Close()
	p.Close()
	assert.Equal(t, []string{"redis", "db"}, order)
}

func TestMustExitsAfterClosing(t *testing.T) {
	code := -1
	p := testProcess(&code)
	closed := false
	p.Defer("db", func() error { closed = true; return nil })

	p.Must(context.Background(), "redis", nil)
	assert.Equal(t, -1, code)
	assert.False(t, closed)

	p.Must(context.Background(), "redis", errors.New("connection refused"))
	assert.Equal(t, 1, code)
	assert.True(t, closed)
}
