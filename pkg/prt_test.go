package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprint(t *testing.T) {
	got := Sprint(map[string]string{"role": "user"})
	assert.Equal(t, "{\n  \"role\": \"user\"\n}", got)
}

func TestSprint_FallsBackOnMarshalError(t *testing.T) {
	got := Sprint(make(chan int))
	assert.NotEmpty(t, got)
}
