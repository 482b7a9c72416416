// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package m2m

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceData(t *testing.T) {
	src := SourceData()

	require.Len(t, src, DataLength)

	for i, v := range src {
		assert.Equal(t, uint32(i), v)
	}

	src[0] = 42
	assert.Equal(t, uint32(0), SourceData()[0])
}

func TestVerifyEqual(t *testing.T) {
	src := SourceData()
	dst := append(Words{}, src...)

	assert.Nil(t, Verify(src, dst))
}

func TestVerifyMismatch(t *testing.T) {
	src := SourceData()
	dst := Words{0, 1, 2, 3, 4, 5, 6, 7, 8, 99}

	mm := Verify(src, dst)

	require.NotNil(t, mm)
	assert.Equal(t, &Mismatch{Index: 9, Want: 9, Got: 99}, mm)
	assert.Equal(t, "index 9: want 0x9, got 0x63", mm.Error())
}

func TestVerifyFirstMismatch(t *testing.T) {
	src := SourceData()
	dst := make(Words, DataLength)

	mm := Verify(src, dst)

	require.NotNil(t, mm)
	// index 0 holds 0 on both sides
	assert.Equal(t, 1, mm.Index)
}

func TestVerifyShortDestination(t *testing.T) {
	src := SourceData()

	mm := Verify(src, src[:5])

	require.NotNil(t, mm)
	assert.True(t, mm.Missing)
	assert.Equal(t, 5, mm.Index)
	assert.Equal(t, "index 5: want 0x5, missing", mm.Error())
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "VERIFIED_OK", StateVerifiedOK.String())
	assert.Equal(t, "State(42)", State(42).String())

	assert.True(t, StateIdle.Terminal())
	assert.True(t, StateHalted.Terminal())
	assert.False(t, StateTransferring.Terminal())
}

func TestStateMachine(t *testing.T) {
	m := &machine{}

	require.NoError(t, m.advance(StateArmed))
	require.NoError(t, m.advance(StateTransferring))

	assert.ErrorIs(t, m.advance(StateIdle), ErrInvalidTransition)
	assert.ErrorIs(t, m.advance(StateArmed), ErrInvalidTransition)

	require.NoError(t, m.advance(StateVerifiedOK))
	require.NoError(t, m.advance(StateIdle))

	assert.Equal(t, StateIdle, m.current())
}

func TestTerminalStatesAreAbsorbing(t *testing.T) {
	all := []State{StateInit, StateArmed, StateTransferring, StateVerifiedOK, StateIdle, StateHalted}

	for _, from := range []State{StateIdle, StateHalted} {
		for _, to := range all {
			m := &machine{state: from}
			assert.ErrorIs(t, m.advance(to), ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestHaltedReachability(t *testing.T) {
	for _, from := range []State{StateInit, StateArmed, StateTransferring, StateVerifiedOK} {
		m := &machine{state: from}
		assert.NoError(t, m.advance(StateHalted), "%s", from)
	}
}
