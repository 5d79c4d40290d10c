package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceNumberSequence(t *testing.T) {
	first, err := invoiceNumberAfter(2026, "")
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", first)

	next, err := invoiceNumberAfter(2026, "INV-2026-0042")
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0043", next)

	// deleting an invoice leaves a gap; the sequence still moves forward
	// from the highest issued number, never reissuing one
	afterGap, err := invoiceNumberAfter(2026, "INV-2026-0100")
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0101", afterGap)

	_, err = invoiceNumberAfter(2026, "INV-2026-xyz")
	assert.Error(t, err)
}
