package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, TicketAvailable.CanTransition(TicketReserved))
	assert.True(t, TicketReserved.CanTransition(TicketAvailable))
	assert.True(t, TicketReserved.CanTransition(TicketSold))

	// AVAILABLE cannot jump straight to SOLD and SOLD is terminal.
	assert.False(t, TicketAvailable.CanTransition(TicketSold))
	assert.False(t, TicketSold.CanTransition(TicketAvailable))
	assert.False(t, TicketSold.CanTransition(TicketReserved))
	assert.False(t, TicketReserved.CanTransition(TicketReserved))
}

func TestValidTicketStatus(t *testing.T) {
	assert.True(t, ValidTicketStatus("AVAILABLE"))
	assert.True(t, ValidTicketStatus("RESERVED"))
	assert.True(t, ValidTicketStatus("SOLD"))
	assert.False(t, ValidTicketStatus("available"))
	assert.False(t, ValidTicketStatus(""))
}
