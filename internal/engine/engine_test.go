package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/evemaps/pipecleaner/internal/esi"
	"github.com/evemaps/pipecleaner/internal/esi/mocks"
	"github.com/evemaps/pipecleaner/internal/testutil"
	"github.com/evemaps/pipecleaner/internal/topology"
)

var errAPIDown = errors.New("api down")

func testTopology() *topology.Topology {
	return topology.New([]topology.Row{
		{EntryID: 1, DestID: 2, Entry: "Amamake", Dest: "Auga", DestRegion: "Heimatar"},
		{EntryID: 3, DestID: 4, Entry: "Tama", Dest: "Nourvukaiken", DestRegion: "Black Rise"},
	})
}

func testConfig() Config {
	return Config{
		UpdateInterval: 20 * time.Minute,
		Retry:          5,
		MaxFrames:      3,
	}
}

// expectQuery arranges one full successful query round on the mock.
func expectQuery(client *mocks.MockClient, kills map[esi.SystemID]esi.KillStats) {
	client.EXPECT().
		KillsBySystem(gomock.Any(), gomock.Any()).
		Return(kills, nil)
	client.EXPECT().
		JumpsBySystem(gomock.Any(), gomock.Any()).
		Return(map[esi.SystemID]esi.JumpStats{1: {Jumps: 10}}, nil)
	client.EXPECT().
		SovBySystem(gomock.Any(), gomock.Any()).
		Return(map[esi.SystemID]esi.SovStats{2: {AllianceID: 99}}, nil)
}

func newTestEngine(t *testing.T, client esi.Client, cfg Config) *Engine {
	t.Helper()

	eng, err := New(testutil.NewTestContext(t), testutil.NewTestLogger(), cfg, client, testTopology())
	require.NoError(t, err)

	return eng
}

func TestNew_SeedsHistoryOnFirstSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	expectQuery(client, map[esi.SystemID]esi.KillStats{1: {ShipKills: 5, PodKills: 1}})

	eng := newTestEngine(t, client, testConfig())

	assert.Equal(t, 1, eng.kills.Len())
	assert.Equal(t, 1, eng.jumps.Len())
	assert.Equal(t, 1, eng.sov.Len())

	ts, rows := eng.Latest()
	assert.False(t, ts.IsZero())
	require.Len(t, rows, 2)

	// Sorted by destination region: Black Rise before Heimatar
	assert.Equal(t, "Black Rise", rows[0].DestRegion)
	assert.Equal(t, "Heimatar", rows[1].DestRegion)
	assert.Equal(t, 5, rows[1].EntryShipKills)
	assert.Equal(t, 10, rows[1].EntryJumps)
}

func TestNew_RetriesThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	// Two failed attempts, then a clean round
	client.EXPECT().
		KillsBySystem(gomock.Any(), gomock.Any()).
		Return(nil, errAPIDown).
		Times(2)
	expectQuery(client, map[esi.SystemID]esi.KillStats{})

	eng := newTestEngine(t, client, testConfig())
	assert.Equal(t, 1, eng.kills.Len())
}

func TestNew_FailsAfterExactlyRetryAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	cfg := testConfig()

	// Every attempt fails on the first call of the round; the retry
	// limit bounds the number of attempts exactly.
	client.EXPECT().
		KillsBySystem(gomock.Any(), gomock.Any()).
		Return(nil, errAPIDown).
		Times(cfg.Retry)

	eng, err := New(testutil.NewTestContext(t), testutil.NewTestLogger(), cfg, client, testTopology())
	require.Error(t, err)
	assert.Nil(t, eng)
	assert.ErrorIs(t, err, errAPIDown)
	assert.Contains(t, err.Error(), "5 times")
}

func TestNew_PartialRoundFailsWhole(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	cfg := testConfig()
	cfg.Retry = 1

	// Kills succeeds but jumps fails: the round must fail as a whole
	// and nothing may be stored.
	client.EXPECT().
		KillsBySystem(gomock.Any(), gomock.Any()).
		Return(map[esi.SystemID]esi.KillStats{}, nil)
	client.EXPECT().
		JumpsBySystem(gomock.Any(), gomock.Any()).
		Return(nil, errAPIDown)

	eng, err := New(testutil.NewTestContext(t), testutil.NewTestLogger(), cfg, client, testTopology())
	require.Error(t, err)
	assert.Nil(t, eng)
}

func TestUpdate_FreshDataSkipsQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	expectQuery(client, map[esi.SystemID]esi.KillStats{1: {ShipKills: 5}})

	eng := newTestEngine(t, client, testConfig())

	// Pin the clock exactly at the staleness threshold: elapsed is not
	// strictly greater than the interval, so no query may be issued.
	// The mock controller fails the test on any unexpected call.
	seeded := eng.lastQueryTime
	eng.now = func() time.Time { return seeded.Add(eng.cfg.UpdateInterval) }

	ts, rows := eng.Update(testutil.NewTestContext(t))
	assert.Equal(t, seeded, ts)
	require.Len(t, rows, 2)

	// Repeated reads stay served from cache
	eng.Update(testutil.NewTestContext(t))
}

func TestUpdate_StaleDataQueriesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	expectQuery(client, map[esi.SystemID]esi.KillStats{1: {ShipKills: 5}})

	eng := newTestEngine(t, client, testConfig())

	seeded := eng.lastQueryTime
	eng.now = func() time.Time { return seeded.Add(eng.cfg.UpdateInterval + time.Second) }

	// Exactly one more query round
	expectQuery(client, map[esi.SystemID]esi.KillStats{1: {ShipKills: 9}})

	ts, rows := eng.Update(testutil.NewTestContext(t))
	assert.True(t, ts.After(seeded))
	require.Len(t, rows, 2)
	assert.Equal(t, 9, rows[1].EntryShipKills)
	assert.Equal(t, 2, eng.kills.Len())
}

func TestUpdate_RefreshFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	expectQuery(client, map[esi.SystemID]esi.KillStats{1: {ShipKills: 5}})

	eng := newTestEngine(t, client, testConfig())

	seeded := eng.lastQueryTime
	before, beforeRows := eng.Latest()

	eng.now = func() time.Time { return seeded.Add(eng.cfg.UpdateInterval + time.Second) }

	// The refresh attempt fails mid-round; kills succeeded but nothing
	// may be written and the caller still gets the previous view.
	client.EXPECT().
		KillsBySystem(gomock.Any(), gomock.Any()).
		Return(map[esi.SystemID]esi.KillStats{1: {ShipKills: 42}}, nil)
	client.EXPECT().
		JumpsBySystem(gomock.Any(), gomock.Any()).
		Return(nil, errAPIDown)

	ts, rows := eng.Update(testutil.NewTestContext(t))
	assert.Equal(t, before, ts)
	assert.Equal(t, beforeRows, rows)
	assert.Equal(t, 1, eng.kills.Len())
	assert.Equal(t, 1, eng.jumps.Len())
	assert.Equal(t, 1, eng.sov.Len())
}

func TestUpdate_EvictionBoundsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	cfg := testConfig()
	cfg.MaxFrames = 3

	expectQuery(client, map[esi.SystemID]esi.KillStats{})

	eng := newTestEngine(t, client, cfg)

	// Five refreshes beyond the initial load, each one interval apart
	const refreshes = 5

	current := eng.lastQueryTime

	for i := 0; i < refreshes; i++ {
		current = current.Add(cfg.UpdateInterval + time.Second)
		now := current
		eng.now = func() time.Time { return now }

		expectQuery(client, map[esi.SystemID]esi.KillStats{})
		eng.Update(testutil.NewTestContext(t))
	}

	// Every kind holds exactly maxFrames snapshots, the most recent ones
	for _, got := range [][]time.Time{
		eng.kills.Timestamps(),
		eng.jumps.Timestamps(),
		eng.sov.Timestamps(),
	} {
		require.Len(t, got, cfg.MaxFrames)

		expected := current
		for i := len(got) - 1; i >= 0; i-- {
			assert.Equal(t, expected, got[i])
			expected = expected.Add(-(cfg.UpdateInterval + time.Second))
		}
	}
}

func TestQuery_ReindexesToUniversalSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	// The API reports activity for system 1 only; the stored table must
	// still carry every universal id with zero defaults.
	expectQuery(client, map[esi.SystemID]esi.KillStats{1: {ShipKills: 3}})

	eng := newTestEngine(t, client, testConfig())

	kills, err := eng.kills.Get(eng.lastQueryTime)
	require.NoError(t, err)
	require.Len(t, kills, 4)

	assert.Equal(t, 3, kills[1].ShipKills)

	for _, id := range []esi.SystemID{2, 3, 4} {
		assert.Contains(t, kills, id)
		assert.Zero(t, kills[id].ShipKills)
	}
}

func TestSovereignty(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	expectQuery(client, map[esi.SystemID]esi.KillStats{})

	eng := newTestEngine(t, client, testConfig())

	ts, sov := eng.Sovereignty()
	assert.Equal(t, eng.lastQueryTime, ts)
	require.Len(t, sov, 4)
	assert.Equal(t, int64(99), sov[2].AllianceID)
}

func TestDump_IsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	expectQuery(client, map[esi.SystemID]esi.KillStats{})

	eng := newTestEngine(t, client, testConfig())
	assert.NoError(t, eng.Dump())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:   "zero config gets defaults",
			config: Config{},
		},
		{
			name:        "update interval too small",
			config:      Config{UpdateInterval: time.Second},
			expectError: true,
			errorMsg:    "update_interval",
		},
		{
			name:        "negative retry",
			config:      Config{Retry: -1},
			expectError: true,
			errorMsg:    "retry",
		},
		{
			name:        "negative max frames",
			config:      Config{MaxFrames: -5},
			expectError: true,
			errorMsg:    "max_frames",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 20*time.Minute, tt.config.UpdateInterval)
			assert.Equal(t, 5, tt.config.Retry)
			assert.Equal(t, 72, tt.config.MaxFrames)
		})
	}
}
