package era

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-network/chaintrack/x/timequery"
)

func TestNewHistoryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		eras    []Summary
		horizon timequery.SlotNo
		wantErr bool
	}{
		{
			name:    "single era",
			eras:    []Summary{{FirstSlot: 0, SlotLength: time.Second}},
			horizon: 1000,
			wantErr: false,
		},
		{
			name: "two contiguous eras",
			eras: []Summary{
				{FirstSlot: 0, SlotLength: 20 * time.Second},
				{FirstSlot: 100, SlotLength: time.Second},
			},
			horizon: 5000,
			wantErr: false,
		},
		{
			name:    "no eras",
			eras:    nil,
			horizon: 100,
			wantErr: true,
		},
		{
			name:    "first era not at slot 0",
			eras:    []Summary{{FirstSlot: 5, SlotLength: time.Second}},
			horizon: 100,
			wantErr: true,
		},
		{
			name: "non-increasing first slots",
			eras: []Summary{
				{FirstSlot: 0, SlotLength: time.Second},
				{FirstSlot: 0, SlotLength: 2 * time.Second},
			},
			horizon: 100,
			wantErr: true,
		},
		{
			name:    "zero slot length",
			eras:    []Summary{{FirstSlot: 0, SlotLength: 0}},
			horizon: 100,
			wantErr: true,
		},
		{
			name: "horizon before last era",
			eras: []Summary{
				{FirstSlot: 0, SlotLength: time.Second},
				{FirstSlot: 100, SlotLength: 2 * time.Second},
			},
			horizon: 50,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := NewHistory(tt.eras, tt.horizon)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, h)
			} else {
				require.NoError(t, err)
				require.NotNil(t, h)
				assert.Equal(t, tt.horizon, h.Horizon())
			}
		})
	}
}

func TestSlotToRelativeTimeAcrossEras(t *testing.T) {
	t.Parallel()

	// Era 0: slots 0-99 at 20s each (so era 1 starts at +2000s).
	// Era 1: slots 100+ at 1s each.
	h, err := NewHistory([]Summary{
		{FirstSlot: 0, SlotLength: 20 * time.Second},
		{FirstSlot: 100, SlotLength: time.Second},
	}, 10_000)
	require.NoError(t, err)

	tests := []struct {
		name    string
		slot    timequery.SlotNo
		wantRel timequery.RelativeTime
		wantLen time.Duration
	}{
		{name: "genesis slot", slot: 0, wantRel: 0, wantLen: 20 * time.Second},
		{name: "inside first era", slot: 50, wantRel: timequery.RelativeTime(1000 * time.Second), wantLen: 20 * time.Second},
		{name: "last slot of first era", slot: 99, wantRel: timequery.RelativeTime(1980 * time.Second), wantLen: 20 * time.Second},
		{name: "first slot of second era", slot: 100, wantRel: timequery.RelativeTime(2000 * time.Second), wantLen: time.Second},
		{name: "inside second era", slot: 150, wantRel: timequery.RelativeTime(2050 * time.Second), wantLen: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rel, slotLen, err := h.SlotToRelativeTime(tt.slot)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRel, rel)
			assert.Equal(t, tt.wantLen, slotLen)
		})
	}
}

func TestSlotToRelativeTimePastHorizon(t *testing.T) {
	t.Parallel()

	h, err := SingleEra(time.Second, 1000)
	require.NoError(t, err)

	for _, slot := range []timequery.SlotNo{1000, 1001, 1 << 40} {
		_, _, err := h.SlotToRelativeTime(slot)
		require.Error(t, err)
		require.True(t, timequery.IsPastHorizon(err))

		var phe *timequery.PastHorizonError
		require.ErrorAs(t, err, &phe)
		assert.Equal(t, slot, phe.Slot)
		assert.Equal(t, timequery.SlotNo(1000), phe.HorizonSlot)
	}
}

func TestSourceSwapExtendsHorizon(t *testing.T) {
	t.Parallel()

	narrow, err := SingleEra(time.Second, 100)
	require.NoError(t, err)
	wide, err := SingleEra(time.Second, 10_000)
	require.NoError(t, err)

	src := NewSource(narrow)

	snap, err := src.Snapshot(t.Context())
	require.NoError(t, err)
	_, _, err = snap.SlotToRelativeTime(500)
	require.True(t, timequery.IsPastHorizon(err))

	src.Swap(wide)

	// A snapshot taken before the swap still answers from the old history.
	_, _, err = snap.SlotToRelativeTime(500)
	require.True(t, timequery.IsPastHorizon(err))

	snap, err = src.Snapshot(t.Context())
	require.NoError(t, err)
	rel, _, err := snap.SlotToRelativeTime(500)
	require.NoError(t, err)
	assert.Equal(t, timequery.RelativeTime(500*time.Second), rel)
}

func TestParseHistory(t *testing.T) {
	t.Parallel()

	data := []byte(`
eras:
  - first_slot: 0
    slot_length: 20s
  - first_slot: 100
    slot_length: 1s
horizon_slot: 5000
`)

	h, err := ParseHistory(data)
	require.NoError(t, err)
	assert.Equal(t, timequery.SlotNo(5000), h.Horizon())

	rel, slotLen, err := h.SlotToRelativeTime(101)
	require.NoError(t, err)
	assert.Equal(t, timequery.RelativeTime(2001*time.Second), rel)
	assert.Equal(t, time.Second, slotLen)
}

func TestParseHistoryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: "eras: ["},
		{name: "bad slot length", data: "eras:\n  - first_slot: 0\n    slot_length: fast\nhorizon_slot: 10"},
		{name: "no eras", data: "horizon_slot: 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseHistory([]byte(tt.data))
			require.Error(t, err)
		})
	}
}
