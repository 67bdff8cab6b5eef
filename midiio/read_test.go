package midiio

import (
	"bytes"
	"os"
	"testing"

	"github.com/ako-music/songforge/song"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleForChannelInvertsChannelForRole(t *testing.T) {
	for _, r := range []song.TrackRole{
		song.RoleVocal, song.RoleChord, song.RoleBass, song.RoleMotif,
		song.RoleArpeggio, song.RoleAux, song.RoleGuitar, song.RoleDrums,
	} {
		assert.Equal(t, r, roleForChannel(channelForRole(r)))
	}
}

func TestReadSMF1RecoversNotesWrittenByWriteSMF1(t *testing.T) {
	s, arr := buildTestSongAndArrangement()
	var buf bytes.Buffer
	require.NoError(t, WriteSMF1(s, arr, &buf))

	tmp := t.TempDir() + "/roundtrip.mid"
	require.NoError(t, os.WriteFile(tmp, buf.Bytes(), 0o644))

	got, err := ReadSMF1(tmp)
	require.NoError(t, err)

	assert.Equal(t, s.BPM, got.BPM)
	assert.Len(t, got.Track(song.RoleChord).Notes, len(s.Track(song.RoleChord).Notes))
	assert.Len(t, got.Track(song.RoleBass).Notes, len(s.Track(song.RoleBass).Notes))
	assert.Equal(t, s.Track(song.RoleBass).Notes[0].Pitch, got.Track(song.RoleBass).Notes[0].Pitch)
}
