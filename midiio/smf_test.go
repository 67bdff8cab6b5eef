package midiio

import (
	"bytes"
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestSongAndArrangement() (*song.Song, *arrangement.Arrangement) {
	prog := theory.ProgressionByID(0)
	arr := arrangement.Build(arrangement.StructureShortForm, prog, arrangement.MoodBallad)
	s := song.NewSong(7)
	s.Title = "Test Song"
	s.Key = 0
	s.BPM = 120
	s.Arrangement = arr
	s.Track(song.RoleChord).Add(song.NoteEvent{StartTick: 0, Duration: 480, Pitch: 60, Velocity: 90})
	s.Track(song.RoleBass).Add(song.NoteEvent{StartTick: 0, Duration: 960, Pitch: 36, Velocity: 100})
	s.SortAll()
	return s, arr
}

func TestChannelForRoleMatchesSpecAssignments(t *testing.T) {
	assert.EqualValues(t, 0, channelForRole(song.RoleVocal))
	assert.EqualValues(t, 1, channelForRole(song.RoleChord))
	assert.EqualValues(t, 2, channelForRole(song.RoleBass))
	assert.EqualValues(t, 3, channelForRole(song.RoleMotif))
	assert.EqualValues(t, 4, channelForRole(song.RoleArpeggio))
	assert.EqualValues(t, 5, channelForRole(song.RoleAux))
	assert.EqualValues(t, 6, channelForRole(song.RoleGuitar))
	assert.EqualValues(t, 9, channelForRole(song.RoleDrums))
}

func TestWriteSMF1ProducesNonEmptyBytes(t *testing.T) {
	s, arr := buildTestSongAndArrangement()
	var buf bytes.Buffer
	err := WriteSMF1(s, arr, &buf)
	require.NoError(t, err)
	assert.True(t, buf.Len() > 0)
	assert.Equal(t, "MThd", string(buf.Bytes()[:4]))
}

func TestWriteSMF1SkipsEmptyTracks(t *testing.T) {
	s, arr := buildTestSongAndArrangement()
	var buf bytes.Buffer
	require.NoError(t, WriteSMF1(s, arr, &buf))
	// Only chord+bass have notes; vocal/motif/arpeggio/aux/guitar/drums are empty
	// and must not produce additional MTrk chunks beyond meta+chord+bass.
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("MTrk")))
}

func TestTransposeClampsToMidiRange(t *testing.T) {
	assert.EqualValues(t, 0, transpose(2, -5))
	assert.EqualValues(t, 127, transpose(125, 10))
	assert.EqualValues(t, 65, transpose(60, 5))
}

func TestGmProgramForRoleMatchesChordAndBass(t *testing.T) {
	assert.EqualValues(t, 0, gmProgramForRole(song.RoleChord))
	assert.EqualValues(t, 33, gmProgramForRole(song.RoleBass))
}
