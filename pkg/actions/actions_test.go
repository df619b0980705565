package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppleScriptEscape(t *testing.T) {
	cases := map[string]string{
		"Safari":   "Safari",
		`say "hi"`: `say \"hi\"`,
		`C:\tmp`:   `C:\\tmp`,
		`a\"b`:     `a\\\"b`,
	}
	for in, want := range cases {
		assert.Equal(t, want, AppleScriptEscape(in), "input %q", in)
	}
}

func TestActionsRejectInvalidPID(t *testing.T) {
	for _, pid := range []int32{-4, 0, 1} {
		assert.ErrorIs(t, Terminate(pid), ErrInvalidPID)
		assert.ErrorIs(t, Reveal(context.Background(), pid, "init"), ErrInvalidPID)
	}
}
